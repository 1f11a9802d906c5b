package pkg

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultPartitionPattern matches the top-level camera partitions SM_1..SM_5.
const DefaultPartitionPattern = `^SM_[1-5]$`

var (
	// ErrSourceNotFound is returned when the discovery root does not exist.
	ErrSourceNotFound = errors.New("source directory does not exist")
	// ErrSourceNotDir is returned when the discovery root is a file.
	ErrSourceNotDir = errors.New("source path is not a directory")
)

// DefaultExtensions lists the image extensions organized when none are configured.
var DefaultExtensions = []string{".jpg", ".jpeg"}

// Job is a single source file waiting to be organized.
type Job struct {
	SourcePath string
	Partition  string
	// Size is the byte size seen during discovery.
	Size int64
}

// ExtensionSet is a case-insensitive set of file extensions including the dot.
type ExtensionSet map[string]struct{}

// NewExtensionSet builds a set from extensions such as ".jpg" or "JPEG".
func NewExtensionSet(exts ...string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}

// Matches reports whether path has an extension in the set.
func (s ExtensionSet) Matches(path string) bool {
	_, ok := s[strings.ToLower(filepath.Ext(path))]
	return ok
}

// DiscoveryOptions tunes DiscoverJobs. Zero values select the defaults.
type DiscoveryOptions struct {
	Partitions *regexp.Regexp
	Extensions ExtensionSet
	Logger     *slog.Logger
}

// DiscoverJobs walks root and returns one Job per supported image stored
// under a top-level partition directory. Top-level directories that do not
// match the partition pattern are not descended. Files placed directly in
// root belong to no partition and are ignored.
//
// An empty result is not an error. Unreadable subtrees are logged and skipped.
func DiscoverJobs(root string, opts DiscoveryOptions) ([]Job, error) {
	partitions := opts.Partitions
	if partitions == nil {
		partitions = regexp.MustCompile(DefaultPartitionPattern)
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = NewExtensionSet(DefaultExtensions...)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve source directory '%s': %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, absRoot)
		}
		return nil, fmt.Errorf("error accessing source directory '%s': %w", absRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotDir, absRoot)
	}

	jobs := []Job{}
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil || rel == "." {
			return nil
		}
		parts := strings.Split(rel, string(filepath.Separator))

		if d.IsDir() {
			if len(parts) == 1 && !partitions.MatchString(parts[0]) {
				return fs.SkipDir
			}
			return nil
		}

		if len(parts) < 2 || !d.Type().IsRegular() || !exts.Matches(path) {
			return nil
		}

		job := Job{SourcePath: path, Partition: parts[0]}
		if fi, err := d.Info(); err == nil {
			job.Size = fi.Size()
		}
		jobs = append(jobs, job)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking through source directory '%s': %w", absRoot, err)
	}

	return jobs, nil
}

// TotalSize sums the discovery-time sizes of jobs.
func TotalSize(jobs []Job) int64 {
	var total int64
	for _, job := range jobs {
		total += job.Size
	}
	return total
}
