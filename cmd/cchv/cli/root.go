// Package cli implements the cchv command surface: listing projects and
// sessions, rendering conversations through the classification engine,
// statistics, resume, redaction, and the serve API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/config"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/logging"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/provider"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/telemetry"
	"github.com/ndokutovich/claude-code-history-viewer/cmd/cchv/cli/view"
)

// app carries the resolved configuration and shared services for every
// command.
type app struct {
	cfg       config.Config
	providers *provider.Registry
	version   string
}

// palette resolves the configured color mode against stdout.
func (a *app) palette() view.Palette {
	return view.NewPalette(view.ColorMode(a.cfg.Color), os.Stdout)
}

// currentProvider returns the configured provider. A --claude-dir
// override pins the claude-code provider to that directory.
//
//nolint:ireturn // Callers need the polymorphic provider.
func (a *app) currentProvider() (provider.Provider, error) {
	if a.cfg.Provider == "claude-code" && a.cfg.ClaudeDir != "" {
		return provider.NewClaudeProviderAt(a.cfg.ClaudeDir), nil
	}
	return a.providers.Get(a.cfg.Provider)
}

// NewRootCmd builds the cchv command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{
		providers: provider.NewRegistry(),
		version:   version,
	}

	var (
		configPath  string
		noTelemetry bool
	)

	rootCmd := &cobra.Command{
		Use:           "cchv",
		Short:         "Browse, search, and resume coding-agent session history",
		Long:          "cchv reads local Claude Code, Codex, Gemini, and Cursor session archives\nand renders conversations, tool results, and token statistics in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd.Flags(), configPath); err != nil {
				return err
			}
			logging.Setup(a.cfg.LogLevel, os.Stderr)

			if noTelemetry {
				a.cfg.Telemetry = false
			}
			client := telemetry.NewClient(version, a.cfg.Telemetry)
			client.TrackCommand(cmd)
			cmd.SetContext(telemetry.WithClient(cmd.Context(), client))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			telemetry.GetClient(cmd.Context()).Close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default: user config dir)")
	flags.String("claude-dir", "", "Claude data directory (default: ~/.claude)")
	flags.String("provider", "", "session provider: claude-code, codex, gemini, cursor")
	flags.String("color", "", "color output: auto, always, never")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&noTelemetry, "no-telemetry", false, "disable anonymous usage reporting")

	rootCmd.AddCommand(
		newProjectsCmd(a),
		newSessionsCmd(a),
		newShowCmd(a),
		newSearchCmd(a),
		newStatsCmd(a),
		newResumeCmd(a),
		newRedactCmd(a),
		newServeCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// load resolves the effective configuration: defaults, then the config
// file, then CCHV_* environment variables, then explicit flags.
func (a *app) load(flags *pflag.FlagSet, configPath string) error {
	if configPath == "" {
		if p, err := config.DefaultPath(); err == nil {
			configPath = p
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	override := func(name string, target *string) {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	override("claude-dir", &cfg.ClaudeDir)
	override("provider", &cfg.Provider)
	override("color", &cfg.Color)
	override("log-level", &cfg.LogLevel)

	a.cfg = cfg
	return nil
}
