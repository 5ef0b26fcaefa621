// Package template renders scaffold templates by substituting {{variable}}
// placeholders from a binding map.
//
// Bindings added with Name additionally expose derived case-style variants:
// {{name.pascal}}, {{name.snake}}, {{name.kebab}}, and {{name.camel}}. A
// placeholder with no binding is a render error naming the variable — it is
// never left as literal text or replaced with an empty string. Literal
// braces that do not form a placeholder (Python dicts, f-strings) pass
// through untouched, which is why generated Python source can be templated
// at all.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fastman-labs/fastman/internal/naming"
)

// RenderError reports an unresolved placeholder.
type RenderError struct {
	Variable string
	Reason   string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("template variable %q: %s", e.Variable, e.Reason)
}

// Binding is one template variable. Name bindings expose case variants.
type Binding struct {
	value  string
	isName bool
}

// Bindings maps variable names to their values.
type Bindings map[string]Binding

// Literal binds a plain string value.
func Literal(v string) Binding { return Binding{value: v} }

// Name binds an identifier that templates may render in any case style.
func Name(v string) Binding { return Binding{value: v, isName: true} }

// placeholderPattern matches {{ident}} and {{ident.variant}}. Anything else
// between doubled braces is left alone.
var placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z][a-zA-Z0-9_]*(?:\.[a-zA-Z]+)?)\}\}`)

// Render substitutes every placeholder in tmpl. The first unresolved
// variable aborts the render with a RenderError.
func Render(tmpl string, bindings Bindings) (string, error) {
	var firstErr error

	out := placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		if firstErr != nil {
			return match
		}
		ref := match[2 : len(match)-2]

		name, variant := ref, ""
		if dot := strings.IndexByte(ref, '.'); dot >= 0 {
			name, variant = ref[:dot], ref[dot+1:]
		}

		b, ok := bindings[name]
		if !ok {
			firstErr = &RenderError{Variable: ref, Reason: "not bound"}
			return match
		}

		if variant == "" {
			return b.value
		}
		if !b.isName {
			firstErr = &RenderError{Variable: ref, Reason: "case variants are only available on name bindings"}
			return match
		}
		switch variant {
		case "pascal":
			return naming.ToPascal(b.value)
		case "snake":
			return naming.ToSnake(b.value)
		case "kebab":
			return naming.ToKebab(b.value)
		case "camel":
			return naming.ToCamel(b.value)
		default:
			firstErr = &RenderError{Variable: ref, Reason: fmt.Sprintf("unknown case variant %q", variant)}
			return match
		}
	})

	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
