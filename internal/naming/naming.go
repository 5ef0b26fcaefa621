// Package naming validates identifiers used as generated-code names and
// derives the case styles (PascalCase, camelCase, snake_case, kebab-case)
// that templates render them in.
//
// Derivation is deterministic regardless of the input style: the name is
// split into words on separator characters and lower-to-upper case changes,
// then reassembled per style, so "user_profile", "UserProfile", and
// "user-profile" all yield the same four variants.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
	titler            = cases.Title(language.English, cases.NoLower)
)

// ValidateIdentifier checks that name is usable as a Python identifier:
// it must start with a letter and contain only letters, digits, and
// underscores.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must start with a letter and contain only letters, numbers, underscores", name)
	}
	return nil
}

// ValidatePathComponent checks that name is safe to use as a single path
// segment: no separators and no traversal.
func ValidatePathComponent(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid name %q: cannot contain path separators", name)
	}
	return nil
}

// words splits a name into lowercase words on separators ('_', '-', ' ')
// and on case-change boundaries ("userProfile" -> ["user", "profile"],
// "HTTPServer" -> ["http", "server"]).
func words(name string) []string {
	var out []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case unicode.IsUpper(r):
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// Boundary before an upper rune that follows a lower rune, or
			// that starts a new word inside an acronym run (HTTPServer).
			if prevLower || (i > 0 && unicode.IsUpper(runes[i-1]) && nextLower) {
				flush()
			}
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

// ToSnake converts a name to snake_case.
func ToSnake(name string) string {
	return strings.Join(words(name), "_")
}

// ToKebab converts a name to kebab-case.
func ToKebab(name string) string {
	return strings.Join(words(name), "-")
}

// ToPascal converts a name to PascalCase.
func ToPascal(name string) string {
	var b strings.Builder
	for _, w := range words(name) {
		b.WriteString(titler.String(w))
	}
	return b.String()
}

// ToCamel converts a name to camelCase.
func ToCamel(name string) string {
	ws := words(name)
	var b strings.Builder
	for i, w := range ws {
		if i == 0 {
			b.WriteString(w)
		} else {
			b.WriteString(titler.String(w))
		}
	}
	return b.String()
}
