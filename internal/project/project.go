// Package project reads and writes the fastman.yaml project manifest.
//
// The manifest records the choices made at project creation time, the
// architecture pattern, the database, and the package manager, so later
// commands do not have to re-ask or re-probe. It is validated against an
// embedded JSON schema before use; a missing manifest is not an error
// because projects created before the manifest existed still work through
// directory probing.
package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/fastman-labs/fastman/internal/branding"
)

//go:embed schema/project.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// Settings is the parsed fastman.yaml manifest.
type Settings struct {
	Name           string `yaml:"name"`
	Pattern        string `yaml:"pattern,omitempty"`
	Database       string `yaml:"database,omitempty"`
	PackageManager string `yaml:"package_manager,omitempty"`
	// Requires is an optional semver constraint on the fastman version,
	// e.g. ">=0.2.0".
	Requires string `yaml:"requires,omitempty"`
}

// ValidationError aggregates schema violations found in a manifest.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, strings.Join(e.Issues, "; "))
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("project.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("project.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Parse validates raw manifest YAML and returns the settings.
func Parse(data []byte, path string) (*Settings, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting %s to JSON: %w", path, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing %s for validation: %w", path, err)
	}

	if err := schema.Validate(inst); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return nil, fmt.Errorf("validating %s: %w", path, err)
		}
		return nil, &ValidationError{Path: path, Issues: collectIssues(ve)}
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// collectIssues walks the validation error tree and renders leaf messages.
func collectIssues(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := "/" + strings.Join(ve.InstanceLocation, "/")
		if len(ve.InstanceLocation) == 0 {
			loc = "(root)"
		}
		msg := ve.Error()
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		return []string{loc + ": " + msg}
	}
	var issues []string
	for _, cause := range ve.Causes {
		issues = append(issues, collectIssues(cause)...)
	}
	return issues
}

// ManifestPath returns the manifest location for a project root.
func ManifestPath(root string) string {
	return filepath.Join(root, branding.ManifestFile())
}

// Load reads and validates the manifest in root. A missing manifest returns
// (nil, nil).
func Load(root string) (*Settings, error) {
	path := ManifestPath(root)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Save writes the manifest to root, overwriting any existing one.
func (s *Settings) Save(root string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	path := ManifestPath(root)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// CheckRequires verifies the running version against the manifest's
// `requires` constraint. Unparsable running versions (dev builds) pass.
func (s *Settings) CheckRequires(version string) error {
	if s == nil || s.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(s.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", s.Requires, err)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(version, "v"))
	if err != nil {
		return nil
	}
	if !constraint.Check(v) {
		return fmt.Errorf("project requires %s %s, running %s", branding.CLIName(), s.Requires, version)
	}
	return nil
}
