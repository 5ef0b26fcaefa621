package command

import (
	"context"

	"github.com/fastman-labs/fastman/internal/logging"
	"github.com/fastman-labs/fastman/internal/pkgmgr"
	"github.com/fastman-labs/fastman/internal/project"
)

// Context carries the shared execution state for one command run: the
// project root, the build version, the lazily detected package manager,
// and the project manifest. Execution is single-threaded, so the cached
// fields use plain set-once-on-first-access semantics.
type Context struct {
	Root    string
	Version string

	ctx context.Context

	manager        *pkgmgr.Descriptor
	settings       *project.Settings
	settingsLoaded bool
}

// NewContext builds a Context rooted at root.
func NewContext(ctx context.Context, root, version string) *Context {
	return &Context{Root: root, Version: version, ctx: ctx}
}

// Ctx returns the cancellation context for external process calls.
func (c *Context) Ctx() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Settings returns the project manifest, loading it on first access. A
// project without a manifest yields nil.
func (c *Context) Settings() *project.Settings {
	if !c.settingsLoaded {
		s, err := project.Load(c.Root)
		if err != nil {
			logging.Warn().Err(err).Msg("ignoring unreadable project manifest")
		}
		c.settings = s
		c.settingsLoaded = true
	}
	return c.settings
}

// Manager returns the project's package manager. The manifest's explicit
// choice wins; otherwise the root is probed once and the result cached.
func (c *Context) Manager() pkgmgr.Descriptor {
	if c.manager == nil {
		var d pkgmgr.Descriptor
		if s := c.Settings(); s != nil && s.PackageManager != "" {
			d = pkgmgr.ByName(s.PackageManager)
		} else {
			d = pkgmgr.Detect(c.Root)
		}
		c.manager = &d
	}
	return *c.manager
}

// Adapter returns a package operation adapter bound to this project.
func (c *Context) Adapter() *pkgmgr.Adapter {
	return &pkgmgr.Adapter{Desc: c.Manager(), Dir: c.Root}
}
