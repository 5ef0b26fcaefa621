// Package config handles the project's environment configuration: the .env
// file, the derived config_cache.json, and secret key generation.
package config

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envFileName   = ".env"
	cacheFileName = "config_cache.json"
)

// EnvPath returns the .env location for a project root.
func EnvPath(root string) string {
	return filepath.Join(root, envFileName)
}

// CachePath returns the config cache location for a project root.
func CachePath(root string) string {
	return filepath.Join(root, cacheFileName)
}

// ReadEnv parses the project's .env file into a map.
func ReadEnv(root string) (map[string]string, error) {
	values, err := godotenv.Read(EnvPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", envFileName, err)
	}
	return values, nil
}

// Cache snapshots the .env contents into config_cache.json and returns the
// number of cached variables.
func Cache(root string) (int, error) {
	values, err := ReadEnv(root)
	if err != nil {
		return 0, err
	}

	v := viper.New()
	v.SetConfigType("json")
	for key, value := range values {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(CachePath(root)); err != nil {
		return 0, fmt.Errorf("writing %s: %w", cacheFileName, err)
	}
	return len(values), nil
}

// ClearCache removes config_cache.json. The bool reports whether a cache
// file existed.
func ClearCache(root string) (bool, error) {
	err := os.Remove(CachePath(root))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("removing %s: %w", cacheFileName, err)
	}
	return true, nil
}

// GenerateKey returns a fresh URL-safe secret suitable for SECRET_KEY.
func GenerateKey() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// SetEnvValue updates key in the project's .env, replacing an existing
// assignment in place so comments and unrelated lines survive. A missing
// .env is created.
func SetEnvValue(root, key, value string) error {
	path := EnvPath(root)
	assignment := key + "=" + value

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return os.WriteFile(path, []byte(assignment+"\n"), 0600)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", envFileName, err)
	}

	lines := strings.Split(string(data), "\n")
	replaced := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, key+"=") {
			lines[i] = assignment
			replaced = true
			break
		}
	}
	content := strings.Join(lines, "\n")
	if !replaced {
		if !strings.HasSuffix(content, "\n") && content != "" {
			content += "\n"
		}
		content += assignment + "\n"
	}

	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", envFileName, err)
	}
	return nil
}
