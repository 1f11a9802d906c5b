package pkg_test

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// createTree writes files under baseDir. nil content creates a directory.
func createTree(t *testing.T, baseDir string, structure map[string][]byte) {
	t.Helper()
	for path, content := range structure {
		fullPath := filepath.Join(baseDir, path)
		if content == nil {
			if err := os.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", filepath.Dir(fullPath), err)
		}
		if err := os.WriteFile(fullPath, content, 0644); err != nil {
			t.Fatalf("Failed to write file %s: %v", fullPath, err)
		}
	}
}

// writeFile creates path with content and sets its modification time.
func writeFile(t *testing.T, path string, content []byte, modTime time.Time) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file %s: %v", path, err)
	}
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("Failed to change mod time for %s: %v", path, err)
	}
	return path
}

// exifDates selects the timestamp tags embedded by jpegWithExif. Empty
// fields are left out of the file.
type exifDates struct {
	Original  string
	Modified  string
	Digitized string
}

// jpegWithExif returns a minimal JPEG stream whose APP1 segment carries a
// little-endian TIFF block with the requested date tags: DateTime in IFD0,
// DateTimeOriginal and DateTimeDigitized in the Exif sub-IFD.
func jpegWithExif(d exifDates) []byte {
	type field struct {
		id  uint16
		val string
	}
	var ifd0, sub []field
	if d.Modified != "" {
		ifd0 = append(ifd0, field{0x0132, d.Modified})
	}
	if d.Original != "" {
		sub = append(sub, field{0x9003, d.Original})
	}
	if d.Digitized != "" {
		sub = append(sub, field{0x9004, d.Digitized})
	}

	le := binary.LittleEndian
	const ifd0Off = 8
	subOff := ifd0Off + 2 + 12*(len(ifd0)+1) + 4
	dataOff := subOff + 2 + 12*len(sub) + 4

	tiff := make([]byte, dataOff)
	copy(tiff, "II")
	le.PutUint16(tiff[2:], 42)
	le.PutUint32(tiff[4:], ifd0Off)

	putEntry := func(pos int, id, typ uint16, count uint32, value []byte) {
		le.PutUint16(tiff[pos:], id)
		le.PutUint16(tiff[pos+2:], typ)
		le.PutUint32(tiff[pos+4:], count)
		copy(tiff[pos+8:pos+12], value)
	}
	putASCII := func(pos int, f field) {
		val := append([]byte(f.val), 0)
		if len(val) <= 4 {
			putEntry(pos, f.id, 2, uint32(len(val)), val)
			return
		}
		off := make([]byte, 4)
		le.PutUint32(off, uint32(len(tiff)))
		putEntry(pos, f.id, 2, uint32(len(val)), off)
		tiff = append(tiff, val...)
	}

	pos := ifd0Off
	le.PutUint16(tiff[pos:], uint16(len(ifd0)+1))
	pos += 2
	for _, f := range ifd0 {
		putASCII(pos, f)
		pos += 12
	}
	ptr := make([]byte, 4)
	le.PutUint32(ptr, uint32(subOff))
	putEntry(pos, 0x8769, 4, 1, ptr)

	pos = subOff
	le.PutUint16(tiff[pos:], uint16(len(sub)))
	pos += 2
	for _, f := range sub {
		putASCII(pos, f)
		pos += 12
	}

	app1 := append([]byte("Exif\x00\x00"), tiff...)
	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	binary.Write(&b, binary.BigEndian, uint16(len(app1)+2))
	b.Write(app1)
	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}
