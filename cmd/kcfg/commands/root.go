package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/desultory/custom-kernel/pkg/telemetry"
)

var (
	// Global flags
	verbose    bool
	jsonOutput bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kcfg",
		Short: "custom-kernel - Kconfig parser and .config generator",
		Long: `kcfg parses the Linux kernel's Kconfig description language and resolves
declarative YAML overrides into generated .config output.

Features:
  - Recursive Kconfig parsing with source expansion and cycle detection
  - Per-entry variable typing, prompts, defaults and help bodies
  - YAML override sets with template groups and fact conditions
  - Canonical CONFIG_X=y / "is not set" rendering`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	// Add subcommands
	rootCmd.AddCommand(newParseCommand())
	rootCmd.AddCommand(newResolveCommand())
	rootCmd.AddCommand(newWatchCommand())

	return rootCmd
}

// newRunLogger creates the per-invocation logger with a fresh run ID.
func newRunLogger() *telemetry.Logger {
	cfg := telemetry.DefaultLoggingConfig()
	if verbose {
		cfg.Level = "debug"
	}
	return telemetry.NewLogger(cfg).WithRunID(uuid.New().String())
}
