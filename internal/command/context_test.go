package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fastman-labs/fastman/internal/project"
)

func TestManagerPrefersManifestChoice(t *testing.T) {
	root := t.TempDir()
	// Marker says pipenv, manifest says poetry; the manifest wins.
	if err := os.WriteFile(filepath.Join(root, "Pipfile"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	s := &project.Settings{Name: "shop", PackageManager: "poetry"}
	if err := s.Save(root); err != nil {
		t.Fatal(err)
	}

	ctx := NewContext(context.Background(), root, "0.0.0-test")
	if got := ctx.Manager().Name; got != "poetry" {
		t.Errorf("Manager() = %q, want poetry", got)
	}
}

func TestManagerIsCached(t *testing.T) {
	root := t.TempDir()
	ctx := NewContext(context.Background(), root, "0.0.0-test")

	if got := ctx.Manager().Name; got != "pip" {
		t.Fatalf("initial Manager() = %q, want pip", got)
	}

	// New markers after first detection must not change the answer.
	if err := os.WriteFile(filepath.Join(root, "poetry.lock"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Manager().Name; got != "pip" {
		t.Errorf("Manager() after new marker = %q, detection was not cached", got)
	}
}

func TestSettingsMissingManifest(t *testing.T) {
	ctx := NewContext(context.Background(), t.TempDir(), "0.0.0-test")
	if s := ctx.Settings(); s != nil {
		t.Errorf("Settings() = %+v, want nil", s)
	}
}
