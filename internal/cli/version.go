package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/heraerp/heralint/internal/build"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Display version information",
	Long:    "Display version, commit, build date, and Go version information for heralint",
	GroupID: GroupConfiguration,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "heralint version %s\n", build.Version)
		fmt.Fprintf(cmd.OutOrStdout(), "Built from commit: %s\n", build.Commit)
		fmt.Fprintf(cmd.OutOrStdout(), "Build date: %s\n", build.BuildDate)
		fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
