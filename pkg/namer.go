package pkg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// maxSuffix bounds the collision probe for a single canonical name.
const maxSuffix = 100000

// ErrNoFreeName is returned when every suffix up to the probe limit is taken.
var ErrNoFreeName = errors.New("no free destination name")

// Namer computes destination paths under an output root and claims them
// without ever handing the same path to two callers.
//
// Real runs claim a path by creating it with O_EXCL, so the existence check
// and the creation are a single filesystem operation. Dry runs create
// nothing; they probe the filesystem and record what they handed out.
type Namer struct {
	root   string
	dryRun bool

	mu       sync.Mutex
	reserved map[string]struct{}
}

// NewNamer returns a namer rooted at root.
func NewNamer(root string, dryRun bool) *Namer {
	return &Namer{
		root:     root,
		dryRun:   dryRun,
		reserved: make(map[string]struct{}),
	}
}

// Root returns the output root.
func (n *Namer) Root() string { return n.root }

// Plan returns the canonical destination root/partition/MM-DD-YYYY/filename.
func (n *Namer) Plan(partition string, date ResolvedDate, filename string) string {
	return filepath.Join(n.root, partition, date.FolderName(), filepath.Base(filename))
}

// SuffixedPath inserts _n before the extension of canonical. n <= 0 returns
// canonical unchanged.
func SuffixedPath(canonical string, n int) string {
	if n <= 0 {
		return canonical
	}
	dir, name := filepath.Split(canonical)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, stem+"_"+strconv.Itoa(n)+ext)
}

// Claim is a destination path owned by one job. For real runs it carries the
// open, empty destination file.
type Claim struct {
	Path string
	file *os.File
}

// File returns the open destination file, or nil for a dry-run claim.
func (c *Claim) File() *os.File { return c.file }

// Release closes and removes a claimed file that was never filled. It is a
// no-op for dry-run claims.
func (c *Claim) Release() {
	if c == nil || c.file == nil {
		return
	}
	c.file.Close()
	os.Remove(c.Path)
	c.file = nil
}

// Claim takes the first free name derived from canonical, trying the bare
// name and then _1, _2, ... . In a real run the parent directory is created
// as needed.
func (n *Namer) Claim(canonical string) (*Claim, error) {
	if n.dryRun {
		return n.reserve(canonical)
	}

	dir := filepath.Dir(canonical)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination directory %s: %w", dir, err)
	}

	for i := 0; i < maxSuffix; i++ {
		candidate := SuffixedPath(canonical, i)
		f, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return &Claim{Path: candidate, file: f}, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return nil, fmt.Errorf("failed to create destination file %s: %w", candidate, err)
	}
	return nil, fmt.Errorf("%w for %s", ErrNoFreeName, canonical)
}

func (n *Namer) reserve(canonical string) (*Claim, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i := 0; i < maxSuffix; i++ {
		candidate := SuffixedPath(canonical, i)
		if _, taken := n.reserved[candidate]; taken {
			continue
		}
		if _, err := os.Lstat(candidate); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to check destination %s: %w", candidate, err)
		}
		n.reserved[candidate] = struct{}{}
		return &Claim{Path: candidate}, nil
	}
	return nil, fmt.Errorf("%w for %s", ErrNoFreeName, canonical)
}
