package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

var (
	// ErrInputUnavailable is returned when the input root is missing,
	// not a directory, or unreadable.
	ErrInputUnavailable = errors.New("input directory unavailable")
	// ErrOutputUnwritable is returned when the output root cannot be created
	// or written.
	ErrOutputUnwritable = errors.New("output directory not writable")
)

// Result reports the outcome of a single check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckInput verifies that dir exists, is a directory, and can be listed.
func CheckInput(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", ErrInputUnavailable, dir)
		}
		return fmt.Errorf("%w: stat %s: %v", ErrInputUnavailable, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInputUnavailable, dir)
	}
	if err := unix.Access(dir, unix.R_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%w: %s: insufficient permissions: %v", ErrInputUnavailable, dir, err)
	}
	return nil
}

// CheckOutput verifies that dir, or its nearest existing ancestor when dir
// has not been created yet, is a writable directory.
func CheckOutput(dir string) error {
	existing, err := nearestExisting(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputUnwritable, dir, err)
	}
	info, err := os.Stat(existing)
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", ErrOutputUnwritable, existing, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrOutputUnwritable, existing)
	}
	if err := unix.Access(existing, unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("%w: %s: insufficient permissions: %v", ErrOutputUnwritable, existing, err)
	}
	return nil
}

// FreeBytes reports the space available to unprivileged users on the
// filesystem holding dir (or its nearest existing ancestor).
func FreeBytes(dir string) (uint64, error) {
	existing, err := nearestExisting(dir)
	if err != nil {
		return 0, err
	}
	var st unix.Statfs_t
	if err := unix.Statfs(existing, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", existing, err)
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}

// CheckCapacity compares need against the free space under dir.
func CheckCapacity(dir string, need int64) Result {
	const name = "Output capacity"
	free, err := FreeBytes(dir)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("unable to determine free space (%v)", err)}
	}
	if need > 0 && uint64(need) > free {
		return Result{Name: name, Detail: fmt.Sprintf("need %s, only %s free", humanBytes(uint64(need)), humanBytes(free))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("need %s, %s free", humanBytes(uint64(max(need, 0))), humanBytes(free))}
}

func nearestExisting(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Lstat(abs); err == nil {
			return abs, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("no existing ancestor for %s", dir)
		}
		abs = parent
	}
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
