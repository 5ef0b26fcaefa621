package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/fastman-labs/fastman/internal/logging"
	"github.com/fastman-labs/fastman/internal/naming"
	"github.com/fastman-labs/fastman/internal/paths"
	"github.com/fastman-labs/fastman/internal/template"
)

//go:embed templates
var templateFS embed.FS

// File pairs an embedded template with its destination pattern. Both the
// template body and the destination are rendered with the same bindings.
type File struct {
	Source string // path under templates/
	Dest   string // e.g. "app/features/{{name.snake}}/models.py"
}

// Result reports what one generation run did, as root-relative paths.
type Result struct {
	Created []string
	Skipped []string
}

// NameBindings returns the standard bindings for a generator target name.
func NameBindings(name string) template.Bindings {
	return template.Bindings{"name": template.Name(name)}
}

// Generate renders each file into the project root. Existing destinations
// are skipped unless overwrite is set, so running the same generation twice
// yields an identical tree with everything reported as skipped. Failed runs
// are not rolled back; each write is individually atomic at the OS level.
func Generate(root string, files []File, bindings template.Bindings, overwrite bool) (*Result, error) {
	res := &Result{}
	for _, f := range files {
		dest, err := template.Render(f.Dest, bindings)
		if err != nil {
			return res, fmt.Errorf("resolving destination %q: %w", f.Dest, err)
		}

		abs, err := paths.Resolve(root, dest)
		if err != nil {
			return res, err
		}

		raw, err := templateFS.ReadFile(path.Join("templates", f.Source))
		if err != nil {
			return res, fmt.Errorf("reading template %s: %w", f.Source, err)
		}

		content, err := template.Render(string(raw), bindings)
		if err != nil {
			return res, fmt.Errorf("rendering %s: %w", f.Source, err)
		}

		err = paths.WriteFile(abs, []byte(content), overwrite)
		if paths.IsExists(err) {
			res.Skipped = append(res.Skipped, dest)
			continue
		}
		if err != nil {
			return res, err
		}
		res.Created = append(res.Created, dest)
	}

	logging.Debug().Int("created", len(res.Created)).Int("skipped", len(res.Skipped)).Msg("generation finished")
	return res, nil
}

// AppendModelImport registers a model in app/models/__init__.py so alembic
// sees it. Returns false when the import line is already present.
func AppendModelImport(root, name string) (bool, error) {
	snake := naming.ToSnake(name)
	line := fmt.Sprintf("from .%s import %s", snake, naming.ToPascal(name))

	abs, err := paths.Resolve(root, "app/models/__init__.py")
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(abs)
	if os.IsNotExist(err) {
		return true, paths.WriteFile(abs, []byte(line+"\n"), false)
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", abs, err)
	}

	content := string(data)
	if strings.Contains(content, line) {
		return false, nil
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += line + "\n"
	return true, paths.WriteFile(abs, []byte(content), true)
}
