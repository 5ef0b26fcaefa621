// Package signature parses command signature strings into structured
// contracts.
//
// A signature declares a command's name, positional arguments, named options,
// and boolean flags in one line:
//
//	make:feature {name} {--crud} {--force}
//	serve {--host=127.0.0.1} {--port=8000} {--reload}
//	greet {name} {greeting="hello there"} {--shout}
//
// A bare token is a required argument, a trailing '?' makes it optional, and
// '=value' supplies a default (which also makes it optional). Tokens prefixed
// '--' are flags, or options when they carry '='. Parsing is pure and
// deterministic; a parsed Signature re-serializes to a canonical form that
// parses back to an identical structure.
package signature

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Argument is one positional argument of a signature.
type Argument struct {
	Name     string
	Required bool
	Default  string // meaningful only when Required is false
}

// Option is a named '--name=value' parameter with a default.
type Option struct {
	Name    string
	Default string
}

// Signature is the parsed contract of one command.
type Signature struct {
	Name      string
	Arguments []Argument
	Options   []Option
	Flags     []string
}

// SyntaxError reports a malformed signature string. It names the offending
// token so the command author can find it.
type SyntaxError struct {
	Token  string
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid signature: %s", e.Reason)
	}
	return fmt.Sprintf("invalid signature token %q: %s", e.Token, e.Reason)
}

// OrderError reports a required argument declared after an optional one.
type OrderError struct {
	Argument string
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("required argument %q declared after an optional argument", e.Argument)
}

var (
	commandNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9:_-]*$`)
	tokenNamePattern   = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
)

// Parse parses a signature string. The first token is the command name;
// every following token must be brace-delimited.
func Parse(raw string) (*Signature, error) {
	tokens, err := lex(raw)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &SyntaxError{Reason: "empty signature"}
	}

	name := tokens[0]
	if !commandNamePattern.MatchString(name) {
		return nil, &SyntaxError{Token: name, Reason: "invalid command name"}
	}

	sig := &Signature{Name: name}
	seenOptional := false
	seen := map[string]string{} // name -> kind, for duplicate detection

	for _, tok := range tokens[1:] {
		if !strings.HasPrefix(tok, "{") || !strings.HasSuffix(tok, "}") {
			return nil, &SyntaxError{Token: tok, Reason: "expected a brace-delimited token"}
		}
		body := tok[1 : len(tok)-1]

		switch {
		case strings.HasPrefix(body, "--"):
			rest := body[2:]
			if eq := strings.IndexByte(rest, '='); eq >= 0 {
				optName, def := rest[:eq], unquote(rest[eq+1:])
				if !tokenNamePattern.MatchString(optName) {
					return nil, &SyntaxError{Token: tok, Reason: "invalid option name"}
				}
				if err := noteName(seen, optName, "option", tok); err != nil {
					return nil, err
				}
				sig.Options = append(sig.Options, Option{Name: optName, Default: def})
			} else {
				if !tokenNamePattern.MatchString(rest) {
					return nil, &SyntaxError{Token: tok, Reason: "invalid flag name"}
				}
				if err := noteName(seen, rest, "flag", tok); err != nil {
					return nil, err
				}
				sig.Flags = append(sig.Flags, rest)
			}

		default:
			arg := Argument{Required: true}
			switch {
			case strings.HasSuffix(body, "?"):
				arg.Name = body[:len(body)-1]
				arg.Required = false
			case strings.ContainsRune(body, '='):
				eq := strings.IndexByte(body, '=')
				arg.Name = body[:eq]
				arg.Default = unquote(body[eq+1:])
				arg.Required = false
			default:
				arg.Name = body
			}
			if !tokenNamePattern.MatchString(arg.Name) {
				return nil, &SyntaxError{Token: tok, Reason: "invalid argument name"}
			}
			if err := noteName(seen, arg.Name, "argument", tok); err != nil {
				return nil, err
			}
			if arg.Required && seenOptional {
				return nil, &OrderError{Argument: arg.Name}
			}
			if !arg.Required {
				seenOptional = true
			}
			sig.Arguments = append(sig.Arguments, arg)
		}
	}

	return sig, nil
}

// noteName records a declared name and rejects duplicates. Options and flags
// share the '--' namespace, so a name may not appear as both.
func noteName(seen map[string]string, name, kind, tok string) error {
	prev, ok := seen[name]
	if !ok {
		seen[name] = kind
		return nil
	}
	if prev == kind {
		return &SyntaxError{Token: tok, Reason: fmt.Sprintf("duplicate %s name %q", kind, name)}
	}
	if (prev == "option" && kind == "flag") || (prev == "flag" && kind == "option") {
		return &SyntaxError{Token: tok, Reason: fmt.Sprintf("name %q declared as both option and flag", name)}
	}
	seen[name] = kind
	return nil
}

// lex splits the raw signature on whitespace, keeping quoted defaults intact.
func lex(raw string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	for _, r := range raw {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case unicode.IsSpace(r) && !inQuote:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, &SyntaxError{Token: cur.String(), Reason: "unterminated quote"}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// unquote strips a matching pair of double quotes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// Option returns the declared option with the given name.
func (s *Signature) Option(name string) (Option, bool) {
	for _, o := range s.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// HasFlag reports whether the signature declares the given flag.
func (s *Signature) HasFlag(name string) bool {
	for _, f := range s.Flags {
		if f == name {
			return true
		}
	}
	return false
}

// String renders the canonical form: name, then arguments in declared order,
// then options, then flags. Parsing the result yields an identical Signature.
func (s *Signature) String() string {
	var b strings.Builder
	b.WriteString(s.Name)
	for _, a := range s.Arguments {
		switch {
		case a.Required:
			fmt.Fprintf(&b, " {%s}", a.Name)
		case a.Default == "":
			fmt.Fprintf(&b, " {%s?}", a.Name)
		default:
			fmt.Fprintf(&b, " {%s=%s}", a.Name, quoteIfNeeded(a.Default))
		}
	}
	for _, o := range s.Options {
		fmt.Fprintf(&b, " {--%s=%s}", o.Name, quoteIfNeeded(o.Default))
	}
	for _, f := range s.Flags {
		fmt.Fprintf(&b, " {--%s}", f)
	}
	return b.String()
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}
