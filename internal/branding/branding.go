// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed, so a fork only has to edit one file to rename the
// tool everywhere it surfaces.
package branding

import (
	_ "embed"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName      string `yaml:"cli_name"`
	DisplayName  string `yaml:"display_name"`
	Description  string `yaml:"description"`
	EnvPrefix    string `yaml:"env_prefix"`
	ManifestFile string `yaml:"manifest_file"`
	DocsURL      string `yaml:"docs_url"`
	RepoURL      string `yaml:"repo_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or partial.
		defaults = brand{
			CLIName:      "fastman",
			DisplayName:  "Fastman",
			Description:  "The complete FastAPI CLI framework",
			EnvPrefix:    "FASTMAN",
			ManifestFile: "fastman.yaml",
			DocsURL:      "https://fastman.dev/docs",
			RepoURL:      "https://github.com/fastman/fastman",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "fastman").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "Fastman").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// EnvPrefix returns the prefix for environment variables (e.g., "FASTMAN").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ManifestFile returns the project manifest filename (e.g., "fastman.yaml").
func ManifestFile() string { load(); return defaults.ManifestFile }

// DocsURL returns the documentation site URL.
func DocsURL() string { load(); return defaults.DocsURL }

// RepoURL returns the source repository URL.
func RepoURL() string { load(); return defaults.RepoURL }
