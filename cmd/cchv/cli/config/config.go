// Package config loads cchv settings from a YAML config file and CCHV_*
// environment variables. Environment variables override the file; command
// line flags override both (applied by the CLI layer after loading).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CCHV_"

// Config holds every user-tunable setting.
type Config struct {
	ClaudeDir string `koanf:"claude_dir"`
	Provider  string `koanf:"provider"`
	Color     string `koanf:"color"`
	LogLevel  string `koanf:"log_level"`
	Telemetry bool   `koanf:"telemetry"`
	ServeAddr string `koanf:"serve_addr"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Provider:  "claude-code",
		Color:     "auto",
		LogLevel:  "warn",
		Telemetry: true,
		ServeAddr: "127.0.0.1:8317",
	}
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(base, "cchv", "config.yaml"), nil
}

// Load reads the config file at path (skipped when absent) and CCHV_*
// environment variables on top of the defaults. A .env file in the working
// directory is applied to the process environment first, if present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment config: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}
