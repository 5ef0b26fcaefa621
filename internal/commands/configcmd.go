package commands

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fastman-labs/fastman/internal/command"
	"github.com/fastman-labs/fastman/internal/config"
	"github.com/fastman-labs/fastman/internal/console"
)

type generateKeyCmd struct{}

func (generateKeyCmd) Signature() string   { return "generate:key {--show}" }
func (generateKeyCmd) Description() string { return "Generate secret key" }

func (generateKeyCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	key := config.GenerateKey()

	if in.Flag("show") {
		console.Echo("Generated key: %s", key)
		return nil
	}

	existed := true
	if _, err := os.Stat(config.EnvPath(ctx.Root)); err != nil {
		existed = false
	}
	if err := config.SetEnvValue(ctx.Root, "SECRET_KEY", key); err != nil {
		return err
	}
	if existed {
		console.Success("Secret key updated in .env")
	} else {
		console.Success("Secret key created in .env")
	}
	console.Echo("Key: %s", key)
	return nil
}

type configCacheCmd struct{}

func (configCacheCmd) Signature() string   { return "config:cache" }
func (configCacheCmd) Description() string { return "Cache environment configuration" }

func (configCacheCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	count, err := config.Cache(ctx.Root)
	if err != nil {
		return err
	}
	console.Success("Configuration cached (%d variables)", count)
	return nil
}

type configClearCmd struct{}

func (configClearCmd) Signature() string   { return "config:clear" }
func (configClearCmd) Description() string { return "Clear configuration cache" }

func (configClearCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	existed, err := config.ClearCache(ctx.Root)
	if err != nil {
		return err
	}
	if existed {
		console.Success("Configuration cache cleared")
	} else {
		console.Info("No cache to clear")
	}
	return nil
}

type cacheClearCmd struct{}

func (cacheClearCmd) Signature() string   { return "cache:clear" }
func (cacheClearCmd) Description() string { return "Clear Python cache files" }

func (cacheClearCmd) Handle(ctx *command.Context, in *command.Invocation) error {
	var caches, stray []string

	err := filepath.WalkDir(ctx.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			console.Warn("Could not read %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if d.Name() == "__pycache__" {
				caches = append(caches, path)
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".pyc") {
			stray = append(stray, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	count := 0
	for _, dir := range caches {
		if err := os.RemoveAll(dir); err != nil {
			console.Warn("Could not remove %s: %v", dir, err)
			continue
		}
		count++
	}
	for _, f := range stray {
		if err := os.Remove(f); err != nil {
			console.Warn("Could not remove %s: %v", f, err)
			continue
		}
		count++
	}

	console.Success("Cleared %d cache files/directories", count)
	return nil
}
