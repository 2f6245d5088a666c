package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.mkv")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if !Exists(file) {
		t.Errorf("Exists(%q) = false, want true", file)
	}
	if Exists(filepath.Join(dir, "absent.mkv")) {
		t.Error("Exists reported a missing file as present")
	}
	if Exists(dir) {
		t.Error("Exists reported a directory as a regular file")
	}
	if !DirExists(dir) {
		t.Errorf("DirExists(%q) = false, want true", dir)
	}
}

func TestCRC32File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "payload.bin")
	// CRC32("123456789") is the standard check value CBF43926.
	if err := os.WriteFile(file, []byte("123456789"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	sum, err := CRC32File(file)
	if err != nil {
		t.Fatalf("CRC32File returned error: %v", err)
	}
	if sum != "CBF43926" {
		t.Errorf("CRC32File = %q, want %q", sum, "CBF43926")
	}

	if _, err := CRC32File(filepath.Join(dir, "missing.bin")); err == nil {
		t.Error("expected error for missing file")
	}
}
