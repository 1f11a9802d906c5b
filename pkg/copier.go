package pkg

import (
	"fmt"
	"io"
	"os"
)

// CopyFile fills a claimed destination with the bytes of srcPath, then
// carries over the source's permission bits and modification time. The claim
// is consumed: on failure the partial destination is removed.
func CopyFile(srcPath string, claim *Claim, verify bool) (err error) {
	destPath := claim.Path
	destinationFile := claim.File()
	if destinationFile == nil {
		return fmt.Errorf("destination %s was not claimed for writing", destPath)
	}
	defer func() {
		if err != nil {
			claim.Release()
			os.Remove(destPath)
		}
	}()

	sourceFile, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcPath, err)
	}
	defer sourceFile.Close()

	info, err := sourceFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file %s: %w", srcPath, err)
	}

	written, err := io.Copy(destinationFile, sourceFile)
	if err != nil {
		return fmt.Errorf("failed to copy content from %s to %s: %w", srcPath, destPath, err)
	}
	if written != info.Size() {
		return fmt.Errorf("short copy from %s to %s: wrote %d of %d bytes", srcPath, destPath, written, info.Size())
	}
	if err := destinationFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination file %s: %w", destPath, err)
	}
	if err := destinationFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file %s: %w", destPath, err)
	}
	claim.file = nil

	if verify {
		if err := VerifyCopy(srcPath, destPath); err != nil {
			return err
		}
	}

	if err := os.Chmod(destPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", destPath, err)
	}
	if err := os.Chtimes(destPath, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to set times on %s: %w", destPath, err)
	}
	return nil
}
