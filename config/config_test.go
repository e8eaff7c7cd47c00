// ==============================================================================================
// FILE: config/config_test.go
// ==============================================================================================
// PURPOSE: Exercises ParseSize's KB/MB/GB suffix handling and Load's
//          missing-file and malformed-size-string behavior.
// ==============================================================================================

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSizeHandlesBareNumbers(t *testing.T) {
	got, err := ParseSize("1024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1024 {
		t.Fatalf("got %d, want 1024", got)
	}
}

func TestParseSizeHandlesSuffixes(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"4KB", 4 << 10},
		{"4MB", 4 << 20},
		{"4GB", 4 << 30},
		{"4kb", 4 << 10},
		{"4mb", 4 << 20},
	}
	for _, tt := range tests {
		got, err := ParseSize(tt.input)
		if err != nil {
			t.Fatalf("ParseSize(%q): unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseSizeRejectsGarbage(t *testing.T) {
	if _, err := ParseSize("not-a-size"); err == nil {
		t.Fatal("expected an error for a non-numeric size string")
	}
}

func TestParseSizeOfEmptyStringIsZero(t *testing.T) {
	got, err := ParseSize("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("got %d, want 0", got)
	}
}

func TestLoadWithEmptyPathReturnsDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.WarningsAsErrors || s.TrimComments || s.MemoryLimitSize != 0 {
		t.Fatalf("got non-default settings from an empty path: %+v", s)
	}
}

func TestLoadWithMissingFileReturnsDefaultsNotAnError(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("expected a missing config file to be treated as absent, got error: %v", err)
	}
	if s.WarningsAsErrors {
		t.Fatal("expected default settings for a missing file")
	}
}

func TestLoadParsesTOMLAndSizeSuffixes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sigmafox.toml")
	contents := `
warnings_as_errors = true
trim_comments = true
memory_limit_size = "4MB"
string_pool_limit = "512KB"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.WarningsAsErrors || !s.TrimComments {
		t.Fatalf("got %+v, want both bool flags true", s)
	}
	if s.MemoryLimitSize != 4<<20 {
		t.Fatalf("got MemoryLimitSize=%d, want %d", s.MemoryLimitSize, 4<<20)
	}
	if s.StringPoolLimit != 512<<10 {
		t.Fatalf("got StringPoolLimit=%d, want %d", s.StringPoolLimit, 512<<10)
	}
}

func TestLoadRejectsMalformedSizeSuffix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sigmafox.toml")
	if err := os.WriteFile(path, []byte(`memory_limit_size = "lots"`), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a malformed memory_limit_size value")
	}
}
