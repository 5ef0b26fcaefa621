package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/console"
	"github.com/fastman-labs/fastman/internal/scaffold"
)

type installAuthCmd struct{}

func (installAuthCmd) Signature() string { return "install:auth {--type=jwt} {--provider=}" }

func (installAuthCmd) Description() string {
	return "Install authentication scaffolding (jwt, oauth, keycloak)"
}

func (c installAuthCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	kind := strings.ToLower(in.Option("type"))
	switch kind {
	case "jwt":
		return c.installJWT(ctx)
	case "oauth":
		return c.installOAuth(ctx, in.Option("provider"))
	case "keycloak":
		return c.installKeycloak(ctx)
	default:
		return fmt.Errorf("unknown auth type %q, available: jwt, oauth, keycloak", kind)
	}
}

func (installAuthCmd) installJWT(ctx *command.Context) error {
	console.Info("Installing JWT authentication...")

	if err := ctx.Adapter().Install(ctx.Ctx(), scaffold.AuthPackages("jwt")); err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}

	res, err := scaffold.Generate(ctx.Root, scaffold.Auth("jwt"), nil, false)
	if err != nil {
		return err
	}
	reportGeneration(res)

	console.Success("JWT authentication installed!")
	console.Info("Endpoints created:")
	console.Highlight("  POST /auth/register - Register new user")
	console.Highlight("  POST /auth/login - Login user")
	console.Highlight("  GET  /auth/me - Get current user")
	console.Info("Next steps:")
	console.Highlight("  1. Run: fastman make:migration 'add users table'")
	console.Highlight("  2. Run: fastman database:migrate")
	console.Highlight("  3. Test at: http://localhost:8000/docs")
	return nil
}

func (installAuthCmd) installOAuth(ctx *command.Context, provider string) error {
	if provider == "" {
		provider = "generic"
	}
	console.Info("Installing OAuth authentication (%s)...", provider)

	if err := ctx.Adapter().Install(ctx.Ctx(), scaffold.AuthPackages("oauth")); err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}

	console.Success("OAuth packages installed")
	console.Info("Manual configuration required - see: https://docs.authlib.org/")
	return nil
}

func (installAuthCmd) installKeycloak(ctx *command.Context) error {
	console.Info("Installing Keycloak authentication...")

	if _, err := os.Stat(filepath.Join(ctx.Root, "app", "core")); err != nil {
		return fmt.Errorf("directory app/core not found, run 'fastman new <name>' to create a project first")
	}

	if err := ctx.Adapter().Install(ctx.Ctx(), scaffold.AuthPackages("keycloak")); err != nil {
		return fmt.Errorf("installing dependencies: %w", err)
	}

	res, err := scaffold.Generate(ctx.Root, scaffold.Auth("keycloak"), nil, false)
	if err != nil {
		return err
	}
	reportGeneration(res)

	if err := patchFile(filepath.Join(ctx.Root, "app", "core", "config.py"), "KEYCLOAK_URL",
		func(content string) string {
			return strings.Replace(content, "    # API", keycloakSettingsBlock+"\n    # API", 1)
		}); err == nil {
		console.Info("Updated config.py with Keycloak settings")
	}

	if err := patchFile(filepath.Join(ctx.Root, "app", "main.py"), "from app.core.keycloak import init_keycloak",
		func(content string) string {
			content = strings.Replace(content,
				"from app.core.logging import setup_logging",
				"from app.core.logging import setup_logging\nfrom app.core.keycloak import init_keycloak", 1)
			return strings.Replace(content,
				"    allow_headers=[\"*\"],\n)",
				"    allow_headers=[\"*\"],\n)\n\n# Initialize Keycloak\ninit_keycloak(app)", 1)
		}); err == nil {
		console.Info("Updated main.py with Keycloak initialization")
	}

	if err := patchFile(filepath.Join(ctx.Root, ".env"), "KEYCLOAK_URL",
		func(content string) string { return content + keycloakEnvBlock }); err == nil {
		console.Info("Updated .env with Keycloak configuration")
	}

	console.Success("Keycloak authentication installed!")
	console.Info("Next steps:")
	console.Highlight("  1. Update .env with your Keycloak credentials")
	console.Highlight("  2. Restart your server")
	console.Highlight("  3. All routes are now protected by Keycloak")
	return nil
}

// patchFile applies edit to path unless marker is already present. Missing
// files and already-patched files both return an error so callers skip the
// "updated" notice.
func patchFile(path, marker string, edit func(string) string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := string(data)
	if strings.Contains(content, marker) {
		return fmt.Errorf("%s already configured", filepath.Base(path))
	}
	return os.WriteFile(path, []byte(edit(content)), 0644)
}

const keycloakSettingsBlock = `
    # Keycloak
    KEYCLOAK_URL: str = "http://localhost:8080"
    KEYCLOAK_REALM: str = "master"
    KEYCLOAK_CLIENT_ID: str = ""
    KEYCLOAK_CLIENT_SECRET: str = ""
    KEYCLOAK_ADMIN_SECRET: Optional[str] = None
`

const keycloakEnvBlock = `
# Keycloak Authentication
KEYCLOAK_URL=http://localhost:8080
KEYCLOAK_REALM=master
KEYCLOAK_CLIENT_ID=your-client-id
KEYCLOAK_CLIENT_SECRET=your-client-secret
`
