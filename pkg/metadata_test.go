package pkg_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/capturesort/pkg"
)

func TestParseExifDate(t *testing.T) {
	tests := []struct {
		raw    string
		want   time.Time
		wantOK bool
	}{
		{"2023:02:01 14:33:22", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"2023-02-01", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"2023/2/1 08:00", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), true},
		{"  2021:12:31 23:59:59\x00", time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"0000:00:00 00:00:00", time.Time{}, false},
		{"2023:13:01 00:00:00", time.Time{}, false},
		{"not a date", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		got, ok := pkg.ParseExifDate(tt.raw)
		if ok != tt.wantOK {
			t.Errorf("ParseExifDate(%q) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseExifDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestResolverChainOrder(t *testing.T) {
	tmpDir := t.TempDir()
	modTime := time.Date(2022, 11, 5, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name       string
		content    []byte
		wantDate   string
		wantSource string
	}{
		{
			name: "original capture wins",
			content: jpegWithExif(exifDates{
				Original:  "2023:02:01 14:33:22",
				Modified:  "2023:03:01 10:00:00",
				Digitized: "2023:04:01 10:00:00",
			}),
			wantDate:   "02-01-2023",
			wantSource: pkg.SourceOriginalCapture,
		},
		{
			name:       "modified when original absent",
			content:    jpegWithExif(exifDates{Modified: "2020/06/15", Digitized: "2019:01:01 00:00:00"}),
			wantDate:   "06-15-2020",
			wantSource: pkg.SourceModified,
		},
		{
			name: "digitized when higher sources are corrupt",
			content: jpegWithExif(exifDates{
				Original:  "garbage",
				Modified:  "0000:00:00 00:00:00",
				Digitized: "2021-07-04 09:00:00",
			}),
			wantDate:   "07-04-2021",
			wantSource: pkg.SourceDigitized,
		},
		{
			name:       "exif without dates falls back to mtime",
			content:    jpegWithExif(exifDates{}),
			wantDate:   "11-05-2022",
			wantSource: pkg.SourceFileModTime,
		},
		{
			name:       "no exif at all",
			content:    []byte("plain bytes, no markers"),
			wantDate:   "11-05-2022",
			wantSource: pkg.SourceFileModTime,
		},
		{
			name:       "truncated app1 segment",
			content:    []byte{0xFF, 0xD8, 0xFF, 0xE1, 0x10, 0x00, 'E', 'x', 'i', 'f'},
			wantDate:   "11-05-2022",
			wantSource: pkg.SourceFileModTime,
		},
	}

	resolver := pkg.NewResolver()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(tmpDir, "SM_1", string(rune('a'+i))+".jpg"), tt.content, modTime)

			got, err := resolver.Resolve(path)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.FolderName() != tt.wantDate {
				t.Errorf("Resolve() date = %s, want %s", got.FolderName(), tt.wantDate)
			}
			if got.Source != tt.wantSource {
				t.Errorf("Resolve() source = %s, want %s", got.Source, tt.wantSource)
			}
		})
	}
}

func TestResolverVanishedFile(t *testing.T) {
	_, err := pkg.NewResolver().Resolve(filepath.Join(t.TempDir(), "gone.jpg"))
	if !errors.Is(err, pkg.ErrResolutionExhausted) {
		t.Fatalf("Resolve(missing) error = %v, want ErrResolutionExhausted", err)
	}
}

func TestResolverCustomChain(t *testing.T) {
	calls := 0
	never := pkg.Extractor{Label: "never", Extract: func(*pkg.Subject) (time.Time, bool) {
		calls++
		return time.Time{}, false
	}}
	fixed := pkg.Extractor{Label: "fixed", Extract: func(*pkg.Subject) (time.Time, bool) {
		return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), true
	}}
	unreachable := pkg.Extractor{Label: "unreachable", Extract: func(*pkg.Subject) (time.Time, bool) {
		t.Error("extractor after first success was called")
		return time.Time{}, false
	}}

	got, err := pkg.NewResolver(never, fixed, unreachable).Resolve("ignored.jpg")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Source != "fixed" || got.String() != "01/02/2024" {
		t.Errorf("Resolve() = %+v, want fixed 01/02/2024", got)
	}
	if calls != 1 {
		t.Errorf("first extractor called %d times, want 1", calls)
	}
}
