package pkg

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ErrVerifyMismatch is returned when a copied file's digest differs from its
// source.
var ErrVerifyMismatch = fmt.Errorf("copy verification failed: content digest mismatch")

// CalculateFileHash calculates the SHA-256 hash of a file's content.
func CalculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s for hashing: %w", filePath, err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to read %s for hashing: %w", filePath, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// VerifyCopy compares the digests of src and dst.
func VerifyCopy(src, dst string) error {
	srcHash, err := CalculateFileHash(src)
	if err != nil {
		return err
	}
	dstHash, err := CalculateFileHash(dst)
	if err != nil {
		return err
	}
	if srcHash != dstHash {
		return fmt.Errorf("%w: %s (%s) vs %s (%s)", ErrVerifyMismatch, src, srcHash[:12], dst, dstHash[:12])
	}
	return nil
}
