package scaffold

// Template sets for each generator. Destination patterns mirror the layout
// the project patterns establish: feature slices under app/features, thin
// endpoints under app/api, and single units under their layer directory.

// Feature is the vertical slice set: model, schemas, service, and router.
func Feature(crud bool) []File {
	router := "feature/router_basic.py.tmpl"
	if crud {
		router = "feature/router_crud.py.tmpl"
	}
	return []File{
		{Source: "feature/models.py.tmpl", Dest: "app/features/{{name.snake}}/models.py"},
		{Source: "feature/schemas.py.tmpl", Dest: "app/features/{{name.snake}}/schemas.py"},
		{Source: "feature/service.py.tmpl", Dest: "app/features/{{name.snake}}/service.py"},
		{Source: router, Dest: "app/features/{{name.snake}}/router.py"},
	}
}

// API is a lightweight endpoint, REST or GraphQL.
func API(style string) []File {
	if style == "graphql" {
		return []File{
			{Source: "api/schema_graphql.py.tmpl", Dest: "app/api/{{name.snake}}/schema.py"},
		}
	}
	return []File{
		{Source: "api/router_rest.py.tmpl", Dest: "app/api/{{name.snake}}/router.py"},
	}
}

// WebSocket is a connection manager plus its endpoint router.
func WebSocket() []File {
	return []File{
		{Source: "websocket/manager.py.tmpl", Dest: "app/features/{{name.snake}}/manager.py"},
		{Source: "websocket/router.py.tmpl", Dest: "app/features/{{name.snake}}/router.py"},
	}
}

// Single-unit generators.
func Controller() []File {
	return []File{{Source: "unit/controller.py.tmpl", Dest: "app/http/controllers/{{name.snake}}.py"}}
}

func Model() []File {
	return []File{{Source: "unit/model.py.tmpl", Dest: "app/models/{{name.snake}}.py"}}
}

func Service() []File {
	return []File{{Source: "unit/service.py.tmpl", Dest: "app/services/{{name.snake}}.py"}}
}

func Middleware() []File {
	return []File{{Source: "unit/middleware.py.tmpl", Dest: "app/middleware/{{name.snake}}.py"}}
}

func Dependency() []File {
	return []File{{Source: "unit/dependency.py.tmpl", Dest: "app/dependencies/{{name.snake}}.py"}}
}

func Schema() []File {
	return []File{{Source: "unit/schema.py.tmpl", Dest: "app/schemas/{{name.snake}}.py"}}
}

func Exception() []File {
	return []File{{Source: "unit/exception.py.tmpl", Dest: "app/core/exceptions/{{name.snake}}.py"}}
}

func Repository() []File {
	return []File{{Source: "unit/repository.py.tmpl", Dest: "app/repositories/{{name.snake}}_repository.py"}}
}

func ConsoleCommand() []File {
	return []File{{Source: "unit/command.py.tmpl", Dest: "app/console/commands/{{name.snake}}.py"}}
}

func Test() []File {
	return []File{{Source: "unit/test.py.tmpl", Dest: "tests/test_{{name.snake}}.py"}}
}

func Seeder() []File {
	return []File{{Source: "unit/seeder.py.tmpl", Dest: "database/seeders/{{name.snake}}_seeder.py"}}
}

func Factory() []File {
	return []File{{Source: "unit/factory.py.tmpl", Dest: "database/factories/{{name.snake}}_factory.py"}}
}

// databaseTemplates maps the database choice to its app/core module.
var databaseTemplates = map[string]File{
	"sqlite":     {Source: "project/database_sqlite.py.tmpl", Dest: "app/core/database.py"},
	"postgresql": {Source: "project/database_postgresql.py.tmpl", Dest: "app/core/database.py"},
	"mysql":      {Source: "project/database_mysql.py.tmpl", Dest: "app/core/database.py"},
	"oracle":     {Source: "project/database_oracle.py.tmpl", Dest: "app/core/database.py"},
	"firebase":   {Source: "project/firebase.py.tmpl", Dest: "app/core/firebase.py"},
}

// Project is the full skeleton written by the new command. Bindings must
// include project, version, and secret_key literals.
func Project(pattern, database string) []File {
	files := []File{
		{Source: "project/main.py.tmpl", Dest: "app/main.py"},
		{Source: "project/config.py.tmpl", Dest: "app/core/config.py"},
		{Source: "project/logging.py.tmpl", Dest: "app/core/logging.py"},
		{Source: "project/discovery.py.tmpl", Dest: "app/core/discovery.py"},
		{Source: "project/graphql.py.tmpl", Dest: "app/core/graphql.py"},
		{Source: "project/gitignore.tmpl", Dest: ".gitignore"},
		{Source: "project/readme.md.tmpl", Dest: "README.md"},
		{Source: "project/test_health.py.tmpl", Dest: "tests/test_health.py"},
	}

	if db, ok := databaseTemplates[database]; ok {
		files = append(files, db)
	} else {
		files = append(files, databaseTemplates["sqlite"])
	}

	if database != "firebase" {
		files = append(files,
			File{Source: "project/alembic.ini.tmpl", Dest: "alembic.ini"},
			File{Source: "project/alembic_env.py.tmpl", Dest: "alembic/env.py"},
			File{Source: "project/alembic_script.py.mako.tmpl", Dest: "alembic/script.py.mako"},
		)
	}

	return files
}

// ProjectDirs lists the directories the new command creates up front for a
// pattern. Migration directories are added only for SQL databases.
func ProjectDirs(pattern, database string, minimal bool) []string {
	var dirs []string
	switch pattern {
	case "api":
		dirs = []string{"app/core", "app/api", "app/schemas", "app/models", "tests", "logs"}
	case "layer":
		dirs = []string{
			"app/core", "app/controllers", "app/services", "app/repositories",
			"app/models", "app/schemas", "app/middleware", "tests", "logs",
		}
	default: // feature
		dirs = []string{"app/core", "app/features", "app/api", "app/models", "tests", "logs"}
		if !minimal {
			dirs = append(dirs,
				"app/services", "app/repositories", "app/middleware",
				"app/dependencies", "database/seeders", "database/factories",
			)
		}
	}
	if database != "firebase" {
		dirs = append(dirs, "alembic/versions")
	}
	return dirs
}

// Auth returns the file set for an authentication backend. The oauth
// backend installs packages only; its provider wiring is manual.
func Auth(kind string) []File {
	switch kind {
	case "oauth":
		return nil
	case "keycloak":
		return []File{
			{Source: "auth/keycloak.py.tmpl", Dest: "app/core/keycloak.py"},
		}
	default: // jwt
		return []File{
			{Source: "auth/jwt_security.py.tmpl", Dest: "app/features/auth/security.py"},
			{Source: "auth/jwt_models.py.tmpl", Dest: "app/features/auth/models.py"},
			{Source: "auth/jwt_schemas.py.tmpl", Dest: "app/features/auth/schemas.py"},
			{Source: "auth/jwt_service.py.tmpl", Dest: "app/features/auth/service.py"},
			{Source: "auth/jwt_dependencies.py.tmpl", Dest: "app/features/auth/dependencies.py"},
			{Source: "auth/jwt_router.py.tmpl", Dest: "app/features/auth/router.py"},
		}
	}
}

// AuthPackages lists the dependencies each auth backend needs installed.
func AuthPackages(kind string) []string {
	switch kind {
	case "oauth":
		return []string{"authlib", "httpx"}
	case "keycloak":
		return []string{"fastapi-keycloak-middleware"}
	default:
		return []string{"pyjwt", "passlib[bcrypt]", "python-multipart"}
	}
}
