// Package cli provides Cobra-based CLI commands for the heralint
// contract validation tool. It defines the bundle linter (lint, watch),
// the transaction guard (txn), and the schema inspection and version
// utilities.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/heraerp/heralint/internal/config"
)

// Command group IDs for organizing help output
const (
	GroupValidation    = "validation"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "heralint",
	Short: "HERA contract bundle validation",
	Long: `heralint validates HERA universal contract bundles.

Lint an orchestration bundle (schemas, smart codes, vocabulary,
slug uniqueness), guard transaction payloads before posting, and
optionally rewrite legacy field names to their canonical form.`,
	Example: `  # Lint the bundle in the current directory
  heralint lint

  # Lint with legacy field normalization, persisting rewrites
  heralint lint --bundle ./playbooks --compat --compat-write

  # Validate a transaction bundle before posting
  heralint txn validate order.yaml

  # Re-lint on every file change
  heralint watch --bundle ./playbooks`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupValidation, Title: "Validation:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})
	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultLocalPath, "Path to config file")
	rootCmd.PersistentFlags().String("vocab", "", "Path to the vocabulary file (overrides config)")
}

// loadConfig resolves the effective configuration for a command,
// layering config files, environment, and command-line flags.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if vocab, _ := cmd.Flags().GetString("vocab"); vocab != "" {
		cfg.VocabPath = vocab
	}
	return cfg, nil
}
