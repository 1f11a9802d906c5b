package pkg

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// Provenance labels recorded on a ResolvedDate.
const (
	SourceOriginalCapture = "original-capture"
	SourceModified        = "modified"
	SourceDigitized       = "digitized"
	SourceFileModTime     = "filesystem-mtime"
)

// ErrResolutionExhausted is returned when no extractor in the chain produced
// a date. With the filesystem fallback in place this only happens when the
// file disappeared after discovery.
var ErrResolutionExhausted = errors.New("no date source produced a value")

// ResolvedDate is a capture day plus the label of the extractor that found it.
type ResolvedDate struct {
	// Date is midnight UTC of the calendar day.
	Date   time.Time
	Source string
}

// FolderName renders the date as the MM-DD-YYYY output directory name.
func (r ResolvedDate) FolderName() string {
	return r.Date.Format("01-02-2006")
}

func (r ResolvedDate) String() string {
	return r.Date.Format("01/02/2006")
}

// Subject is the file being resolved. EXIF is decoded on first use and
// shared by every extractor in the chain.
type Subject struct {
	Path string

	exifLoaded bool
	exifData   *exif.Exif
}

// Exif returns the decoded EXIF block, or nil when the file has none or it
// cannot be read.
func (s *Subject) Exif() *exif.Exif {
	if !s.exifLoaded {
		s.exifLoaded = true
		s.exifData = decodeExif(s.Path)
	}
	return s.exifData
}

func decodeExif(path string) (x *exif.Exif) {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	// goexif can panic on truncated IFDs.
	defer func() {
		if r := recover(); r != nil {
			x = nil
		}
	}()

	decoded, err := exif.Decode(f)
	if err != nil && (decoded == nil || exif.IsCriticalError(err)) {
		return nil
	}
	return decoded
}

// Extractor is one link of the fallback chain. Extract reports ok=false when
// its source has no usable value for the subject.
type Extractor struct {
	Label   string
	Extract func(s *Subject) (date time.Time, ok bool)
}

// ExifField builds an extractor that reads an EXIF date/time tag.
func ExifField(label string, field exif.FieldName) Extractor {
	return Extractor{
		Label: label,
		Extract: func(s *Subject) (time.Time, bool) {
			x := s.Exif()
			if x == nil {
				return time.Time{}, false
			}
			tag, err := x.Get(field)
			if err != nil {
				return time.Time{}, false
			}
			raw, err := tag.StringVal()
			if err != nil {
				return time.Time{}, false
			}
			return ParseExifDate(raw)
		},
	}
}

// FileModTime is the terminal extractor: the local calendar day of the
// file's modification time.
func FileModTime() Extractor {
	return Extractor{
		Label: SourceFileModTime,
		Extract: func(s *Subject) (time.Time, bool) {
			info, err := os.Stat(s.Path)
			if err != nil {
				return time.Time{}, false
			}
			mod := info.ModTime().In(time.Local)
			return time.Date(mod.Year(), mod.Month(), mod.Day(), 0, 0, 0, 0, time.UTC), true
		},
	}
}

// DefaultChain returns the capture-date fallback order: original capture,
// modify date, digitized, then filesystem mtime.
func DefaultChain() []Extractor {
	return []Extractor{
		ExifField(SourceOriginalCapture, exif.DateTimeOriginal),
		ExifField(SourceModified, exif.DateTime),
		ExifField(SourceDigitized, exif.DateTimeDigitized),
		FileModTime(),
	}
}

var dateSeparators = strings.NewReplacer(":", "-", "/", "-")

// ParseExifDate extracts the calendar day from an EXIF-style timestamp such as
// "2023:02:01 14:33:22", "2023-02-01" or "2023/2/1 08:00". The time of day is
// discarded. ok is false for anything that does not start with a valid date.
func ParseExifDate(raw string) (time.Time, bool) {
	fields := strings.Fields(strings.Trim(raw, "\x00 \t\r\n"))
	if len(fields) == 0 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-1-2", dateSeparators.Replace(fields[0]))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Resolver runs an ordered chain of extractors and keeps the first success.
type Resolver struct {
	chain []Extractor
}

// NewResolver returns a resolver over chain, or over DefaultChain when none
// is given.
func NewResolver(chain ...Extractor) *Resolver {
	if len(chain) == 0 {
		chain = DefaultChain()
	}
	return &Resolver{chain: chain}
}

// Resolve returns the capture date for path and the label of the source that
// produced it.
func (r *Resolver) Resolve(path string) (ResolvedDate, error) {
	subject := &Subject{Path: path}
	for _, ex := range r.chain {
		if date, ok := ex.Extract(subject); ok {
			return ResolvedDate{Date: date, Source: ex.Label}, nil
		}
	}
	return ResolvedDate{}, ErrResolutionExhausted
}
