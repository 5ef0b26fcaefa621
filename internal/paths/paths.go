// Package paths confines generated-file placement to the project root and
// enforces the non-destructive write policy.
//
// Every file a scaffolding command writes is resolved through Resolve first,
// which rejects any relative path whose normalized form crosses the root
// boundary. This is the defense against malformed or malicious names used as
// path fragments.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SafetyError reports a destination path that escapes the project root.
type SafetyError struct {
	Root string
	Path string
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("path %q escapes project root %q", e.Path, e.Root)
}

// ExistsError reports a write refused because the destination already exists
// and no overwrite was requested.
type ExistsError struct {
	Path string
}

func (e *ExistsError) Error() string {
	return fmt.Sprintf("file already exists: %s", e.Path)
}

// IsExists reports whether err is an ExistsError.
func IsExists(err error) bool {
	var ee *ExistsError
	return errors.As(err, &ee)
}

// Resolve joins rel onto root and verifies the normalized result stays
// inside root. Absolute paths and any traversal crossing the root boundary
// return a SafetyError.
func Resolve(root, rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return "", &SafetyError{Root: root, Path: rel}
	}

	cleanRoot := filepath.Clean(root)
	abs := filepath.Join(cleanRoot, rel)

	back, err := filepath.Rel(cleanRoot, abs)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", &SafetyError{Root: root, Path: rel}
	}
	return abs, nil
}

// EnsureDir creates the directory (and parents) if needed.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// WriteFile writes content to path, creating parent directories as needed.
// When the file already exists and overwrite is false it writes nothing and
// returns an ExistsError, so re-running the same generation is always safe.
// Each write is a single OS-level create-or-truncate.
func WriteFile(path string, content []byte, overwrite bool) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return &ExistsError{Path: path}
		}
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Remove deletes a file or directory tree.
func Remove(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}
