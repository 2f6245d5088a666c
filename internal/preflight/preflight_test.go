package preflight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := CheckDirectoryAccess("Premux directory", dir)
	if !result.Passed {
		t.Errorf("writable directory failed check: %+v", result)
	}

	result = CheckDirectoryAccess("Premux directory", filepath.Join(dir, "missing"))
	if result.Passed {
		t.Errorf("missing directory passed check: %+v", result)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result = CheckDirectoryAccess("Premux directory", file)
	if result.Passed {
		t.Errorf("regular file passed directory check: %+v", result)
	}
}

func TestCheckDirectoryAccessReadOnlySource(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	// Read-only mounts (BD rips) are valid sources.
	if result := CheckDirectoryAccess("Premux directory", dir); !result.Passed {
		t.Errorf("read-only directory failed source check: %+v", result)
	}
}

func TestCheckBinary(t *testing.T) {
	if result := CheckBinary("shell", "sh"); !result.Passed {
		t.Errorf("sh reported unavailable: %+v", result)
	}
	if result := CheckBinary("missing", "definitely-not-a-real-binary"); result.Passed {
		t.Errorf("missing binary reported available: %+v", result)
	}
	if result := CheckBinary("unconfigured", "  "); result.Passed || result.Detail != "command not configured" {
		t.Errorf("unconfigured command mishandled: %+v", result)
	}
}

func TestCheckFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Caramel.ass")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if result := CheckFileExists("Subtitle", path); !result.Passed {
		t.Errorf("existing file failed check: %+v", result)
	}
	if result := CheckFileExists("Subtitle", filepath.Join(dir, "absent.ass")); result.Passed {
		t.Errorf("missing file passed check: %+v", result)
	}
}
