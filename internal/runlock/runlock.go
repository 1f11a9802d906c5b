// Package runlock keeps two real runs from writing into the same output root
// at once.
package runlock

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunInProgress is returned when another process holds the lock for the
// same output root.
var ErrRunInProgress = errors.New("another run is already writing to this output directory")

// Lock is an advisory lock held for the duration of a run.
type Lock struct {
	path  string
	flock *flock.Flock
}

// PathFor returns the lock file used for outDir. Lock files live in the OS
// temp dir so the output tree only ever contains copied images.
func PathFor(outDir string) (string, error) {
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return "", fmt.Errorf("resolve output directory %s: %w", outDir, err)
	}
	sum := sha1.Sum([]byte(filepath.Clean(abs)))
	return filepath.Join(os.TempDir(), "capturesort-"+hex.EncodeToString(sum[:])[:12]+".lock"), nil
}

// Acquire takes the lock for outDir without blocking.
func Acquire(outDir string) (*Lock, error) {
	path, err := PathFor(outDir)
	if err != nil {
		return nil, err
	}
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrRunInProgress, path)
	}
	return &Lock{path: path, flock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. The lock file itself is left in place.
func (l *Lock) Release() error {
	if l == nil || l.flock == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	l.flock = nil
	return nil
}
