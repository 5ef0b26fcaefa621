package command

import (
	"fmt"
	"sort"

	"github.com/fastman-labs/fastman/internal/signature"
)

// Entry pairs a registered command with its eagerly parsed signature.
type Entry struct {
	Command   Command
	Signature *signature.Signature
}

// Registry holds every registered command by name. Registration failures
// (bad signature, name collision) are configuration errors surfaced at
// startup, before any dispatch.
type Registry struct {
	byName map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Entry)}
}

// Register parses the command's signature and adds it. A duplicate name or
// an invalid signature is an error.
func (r *Registry) Register(cmd Command) error {
	sig, err := signature.Parse(cmd.Signature())
	if err != nil {
		return fmt.Errorf("registering command: %w", err)
	}
	if _, exists := r.byName[sig.Name]; exists {
		return fmt.Errorf("duplicate command registration: %q", sig.Name)
	}
	r.byName[sig.Name] = &Entry{Command: cmd, Signature: sig}
	return nil
}

// Lookup returns the entry for name or a CommandNotFoundError.
func (r *Registry) Lookup(name string) (*Entry, error) {
	entry, ok := r.byName[name]
	if !ok {
		return nil, &CommandNotFoundError{Name: name}
	}
	return entry, nil
}

// Entries returns every registered entry sorted by command name, for
// stable user-facing listings.
func (r *Registry) Entries() []*Entry {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]*Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, r.byName[name])
	}
	return entries
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.byName)
}
