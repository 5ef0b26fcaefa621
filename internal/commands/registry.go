// Package commands implements every built-in CLI command and assembles
// them into a registry.
package commands

import (
	"github.com/fastman-labs/fastman/internal/command"
)

// BuildRegistry registers the full command set. Registration fails fast on
// a malformed or duplicated signature, so a broken build never ships a
// partially working command table.
func BuildRegistry() (*command.Registry, error) {
	r := command.NewRegistry()

	cmds := []command.Command{
		// Project setup
		newCmd{},
		initCmd{},

		// Development
		serveCmd{},
		buildCmd{},
		optimizeCmd{},

		// Scaffolding
		makeFeature(),
		makeAPI(),
		makeWebSocket(),
		makeModel(),
		makeException(),

		// Database
		makeMigrationCmd{},
		databaseMigrateCmd{},
		migrateRollbackCmd{},
		migrateResetCmd{},
		migrateStatusCmd{},
		databaseSeedCmd{},

		// Authentication
		installAuthCmd{},

		// Packages
		packageImportCmd{},
		packageListCmd{},
		packageRemoveCmd{},

		// Configuration and caches
		generateKeyCmd{},
		configCacheCmd{},
		configClearCmd{},
		cacheClearCmd{},

		// Utilities
		versionCmd{},
		docsCmd{},
		inspectCmd{},
		routeListCmd{},
		activateCmd{},
		&listCmd{registry: r},
		&completionCmd{registry: r},
	}
	cmds = append(cmds, simpleGenerators()...)

	for _, c := range cmds {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}
