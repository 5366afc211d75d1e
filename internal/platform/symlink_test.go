package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCreateSymlinkToDirectory(t *testing.T) {
	tmp := t.TempDir()

	if err := os.Mkdir(filepath.Join(tmp, "demo-venv"), 0755); err != nil {
		t.Fatal(err)
	}

	linkPath := filepath.Join(tmp, "venv")
	if err := CreateSymlink("demo-venv", linkPath); err != nil {
		t.Fatalf("CreateSymlink failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(linkPath)
		if err != nil {
			t.Fatalf("stat through link: %v", err)
		}
		if !info.IsDir() {
			t.Error("link should resolve to a directory")
		}
	}
}

func TestReadSymlinkTargetRelative(t *testing.T) {
	tmp := t.TempDir()

	linkPath := filepath.Join(tmp, "venv")
	if err := CreateSymlink("demo-venv", linkPath); err != nil {
		t.Fatal(err)
	}

	got, err := ReadSymlinkTarget(linkPath)
	if err != nil {
		t.Fatalf("ReadSymlinkTarget failed: %v", err)
	}
	if got != "demo-venv" {
		t.Errorf("ReadSymlinkTarget = %q, want %q", got, "demo-venv")
	}
}

func TestReadSymlinkTargetMissing(t *testing.T) {
	if _, err := ReadSymlinkTarget(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing link")
	}
}

func TestSymlinkPointsTo(t *testing.T) {
	tmp := t.TempDir()
	linkPath := filepath.Join(tmp, "venv")
	if err := CreateSymlink("demo-venv", linkPath); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"same relative name", "demo-venv", true},
		{"absolute spelling", filepath.Join(tmp, "demo-venv"), true},
		{"other name", "other-venv", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := SymlinkPointsTo(linkPath, tt.want)
			if err != nil {
				t.Fatalf("SymlinkPointsTo: %v", err)
			}
			if ok != tt.ok {
				t.Errorf("SymlinkPointsTo(%q) = %v, want %v", tt.want, ok, tt.ok)
			}
		})
	}
}

func TestIsSymlinkSupported(t *testing.T) {
	if runtime.GOOS != "windows" && !IsSymlinkSupported() {
		t.Error("IsSymlinkSupported returned false on Unix")
	}
}
