package config

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func writeEnv(t *testing.T, root, content string) {
	t.Helper()
	if err := os.WriteFile(EnvPath(root), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestCacheSnapshotsEnv(t *testing.T) {
	root := t.TempDir()
	writeEnv(t, root, "DEBUG=true\n# comment\nDATABASE_URL=sqlite:///./app.db\n")

	count, err := Cache(root)
	if err != nil {
		t.Fatalf("Cache() error: %v", err)
	}
	if count != 2 {
		t.Errorf("Cache() count = %d, want 2", count)
	}

	data, err := os.ReadFile(CachePath(root))
	if err != nil {
		t.Fatalf("reading cache: %v", err)
	}
	var cached map[string]string
	if err := json.Unmarshal(data, &cached); err != nil {
		t.Fatalf("cache is not valid JSON: %v", err)
	}
	if cached["debug"] != "true" && cached["DEBUG"] != "true" {
		t.Errorf("cache missing DEBUG: %v", cached)
	}
}

func TestCacheWithoutEnvFails(t *testing.T) {
	root := t.TempDir()
	if _, err := Cache(root); err == nil {
		t.Error("Cache() without .env succeeded")
	}
}

func TestClearCache(t *testing.T) {
	root := t.TempDir()
	writeEnv(t, root, "A=1\n")
	if _, err := Cache(root); err != nil {
		t.Fatal(err)
	}

	existed, err := ClearCache(root)
	if err != nil {
		t.Fatalf("ClearCache() error: %v", err)
	}
	if !existed {
		t.Error("ClearCache() reported no cache file")
	}
	if _, err := os.Stat(CachePath(root)); !os.IsNotExist(err) {
		t.Error("cache file still present after clear")
	}

	existed, err = ClearCache(root)
	if err != nil || existed {
		t.Errorf("second ClearCache() = (%v, %v), want (false, nil)", existed, err)
	}
}

func TestGenerateKeyIsFresh(t *testing.T) {
	a, b := GenerateKey(), GenerateKey()
	if a == b {
		t.Error("two generated keys are identical")
	}
	if len(a) < 40 {
		t.Errorf("key too short: %d chars", len(a))
	}
}

func TestSetEnvValueReplacesInPlace(t *testing.T) {
	root := t.TempDir()
	writeEnv(t, root, "# app settings\nDEBUG=true\nSECRET_KEY=old\n")

	if err := SetEnvValue(root, "SECRET_KEY", "new"); err != nil {
		t.Fatalf("SetEnvValue() error: %v", err)
	}

	data, _ := os.ReadFile(EnvPath(root))
	content := string(data)
	if !strings.Contains(content, "SECRET_KEY=new") {
		t.Errorf("key not replaced: %q", content)
	}
	if strings.Contains(content, "old") {
		t.Errorf("old value survived: %q", content)
	}
	if !strings.Contains(content, "# app settings") || !strings.Contains(content, "DEBUG=true") {
		t.Errorf("unrelated lines lost: %q", content)
	}
}

func TestSetEnvValueAppendsAndCreates(t *testing.T) {
	root := t.TempDir()
	writeEnv(t, root, "DEBUG=true\n")
	if err := SetEnvValue(root, "SECRET_KEY", "abc"); err != nil {
		t.Fatal(err)
	}
	values, err := ReadEnv(root)
	if err != nil {
		t.Fatal(err)
	}
	if values["SECRET_KEY"] != "abc" || values["DEBUG"] != "true" {
		t.Errorf("values = %v", values)
	}

	fresh := t.TempDir()
	if err := SetEnvValue(fresh, "SECRET_KEY", "xyz"); err != nil {
		t.Fatal(err)
	}
	values, err = ReadEnv(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if values["SECRET_KEY"] != "xyz" {
		t.Errorf("values = %v", values)
	}
}
