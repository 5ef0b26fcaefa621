package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveInsideRoot(t *testing.T) {
	root := t.TempDir()
	got, err := Resolve(root, "sub/dir/file.txt")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	want := filepath.Join(root, "sub", "dir", "file.txt")
	if got != want {
		t.Errorf("Resolve() = %q, want %q", got, want)
	}
}

func TestResolveRejectsEscapes(t *testing.T) {
	root := t.TempDir()
	cases := []string{
		"../../etc/passwd",
		"..",
		"sub/../../outside",
		"/etc/passwd",
	}
	for _, rel := range cases {
		_, err := Resolve(root, rel)
		var safetyErr *SafetyError
		if !errors.As(err, &safetyErr) {
			t.Errorf("Resolve(%q) error = %v, want *SafetyError", rel, err)
		}
	}
}

func TestResolveAllowsInternalDotDot(t *testing.T) {
	root := t.TempDir()
	// Traversal that never crosses the root boundary is fine.
	got, err := Resolve(root, "a/b/../c")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != filepath.Join(root, "a", "c") {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestWriteFileCreatesWithParents(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "app", "services", "order.py")
	if err := WriteFile(path, []byte("content"), false); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteFileRefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "file.txt")
	if err := WriteFile(path, []byte("first"), false); err != nil {
		t.Fatalf("first write: %v", err)
	}

	err := WriteFile(path, []byte("second"), false)
	if !IsExists(err) {
		t.Fatalf("second write error = %v, want ExistsError", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "first" {
		t.Errorf("content after refused write = %q, want %q", data, "first")
	}
}

func TestWriteFileOverwrite(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "file.txt")
	if err := WriteFile(path, []byte("first"), false); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteFile(path, []byte("second"), true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}
}
