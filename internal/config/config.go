// Package config reads the server settings from flags, falling back to
// HOUSECHESS_* environment variables and then to built-in defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/benbeisheim/housechess-backend/internal/chess"
	"github.com/benbeisheim/housechess-backend/internal/engine"
	"github.com/benbeisheim/housechess-backend/internal/model"
)

type Config struct {
	Addr         string
	Depth        int
	AllowOrigins string
	Variant      model.Variant
	// EngineColor is the side the engine takes in new games; nil for none.
	EngineColor *chess.Color
	AccessLog   bool
}

// Settings are the defaults handed to every new game.
func (c Config) Settings() model.Settings {
	return model.Settings{
		Variant:     c.Variant,
		EngineColor: c.EngineColor,
		Depth:       c.Depth,
	}
}

// Load parses args (without the program name). Depth is clamped to
// [1, model.MaxDepth].
func Load(args []string) (Config, error) {
	return load(args, os.Getenv, os.Stderr)
}

func load(args []string, env func(string) string, usage io.Writer) (Config, error) {
	fs := flag.NewFlagSet("housechess", flag.ContinueOnError)
	fs.SetOutput(usage)

	addr := fs.String("addr", getenv(env, "HOUSECHESS_ADDR", ":3000"), "listen address")
	depth := fs.Int("depth", getenvInt(env, "HOUSECHESS_DEPTH", engine.DefaultDepth), "engine search depth")
	origins := fs.String("allow-origins", getenv(env, "HOUSECHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma-separated CORS origins, or *")
	variant := fs.String("variant", getenv(env, "HOUSECHESS_VARIANT", string(model.Standard)), "default variant: standard or crazyhouse")
	engineColor := fs.String("engine-color", getenv(env, "HOUSECHESS_ENGINE_COLOR", "black"), "side the engine plays: white, black or none")
	accessLog := fs.Bool("access-log", getenb(env, "HOUSECHESS_ACCESS_LOG", true), "log every HTTP request")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:         *addr,
		Depth:        *depth,
		AllowOrigins: *origins,
		AccessLog:    *accessLog,
	}
	if cfg.Depth < 1 {
		cfg.Depth = 1
	}
	if cfg.Depth > model.MaxDepth {
		cfg.Depth = model.MaxDepth
	}

	v, err := model.ParseVariant(*variant)
	if err != nil {
		return Config{}, err
	}
	cfg.Variant = v

	if *engineColor != "none" {
		color, err := chess.ParseColor(*engineColor)
		if err != nil {
			return Config{}, fmt.Errorf("engine color: %w", err)
		}
		cfg.EngineColor = &color
	}
	return cfg, nil
}

func getenv(env func(string) string, key, def string) string {
	if v := env(key); v != "" {
		return v
	}
	return def
}

func getenvInt(env func(string) string, key string, def int) int {
	if v := env(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getenb(env func(string) string, key string, def bool) bool {
	if v := env(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
