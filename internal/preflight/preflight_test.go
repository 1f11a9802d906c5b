package preflight

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckInput_OK(t *testing.T) {
	if err := CheckInput(t.TempDir()); err != nil {
		t.Fatalf("expected pass for temp dir, got: %v", err)
	}
}

func TestCheckInput_NotExist(t *testing.T) {
	err := CheckInput(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrInputUnavailable) {
		t.Fatalf("expected ErrInputUnavailable, got %v", err)
	}
}

func TestCheckInput_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckInput(f); !errors.Is(err, ErrInputUnavailable) {
		t.Fatalf("expected ErrInputUnavailable for file path, got %v", err)
	}
}

func TestCheckOutput(t *testing.T) {
	dir := t.TempDir()
	if err := CheckOutput(dir); err != nil {
		t.Fatalf("existing dir: %v", err)
	}
	if err := CheckOutput(filepath.Join(dir, "not", "yet", "created")); err != nil {
		t.Fatalf("missing dir under writable parent: %v", err)
	}

	f := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CheckOutput(filepath.Join(f, "out")); !errors.Is(err, ErrOutputUnwritable) {
		t.Fatalf("expected ErrOutputUnwritable below a file, got %v", err)
	}
}

func TestCheckCapacity(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	free, err := FreeBytes(dir)
	if err != nil {
		t.Fatalf("FreeBytes: %v", err)
	}
	if free == 0 {
		t.Fatal("expected some free space on the temp filesystem")
	}

	if r := CheckCapacity(dir, 1); !r.Passed {
		t.Fatalf("expected pass for 1 byte, got: %s", r.Detail)
	}
	if r := CheckCapacity(dir, math.MaxInt64); r.Passed || r.Detail == "" {
		t.Fatalf("expected failure with detail for huge need, got %+v", r)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := map[uint64]string{
		0:               "0 B",
		1023:            "1023 B",
		1024:            "1.0 KiB",
		1536:            "1.5 KiB",
		5 * 1024 * 1024: "5.0 MiB",
		3 << 30:         "3.0 GiB",
	}
	for in, want := range tests {
		if got := humanBytes(in); got != want {
			t.Errorf("humanBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
