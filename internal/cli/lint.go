package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/heraerp/heralint/internal/config"
	"github.com/heraerp/heralint/internal/lint"
)

var lintQuietFlag bool

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint an orchestration bundle",
	Long: `Lint an orchestration bundle.

Reads <bundle>/universal_orchestration.yaml, validates every referenced
contract file against its schema, checks smart code and entity slug
uniqueness, enforces the controlled vocabulary, and writes the full
report to <bundle>/.hera/report.json.

The report JSON is printed to stdout; a colored summary goes to stderr.
Returns exit code 0 when the bundle has no errors; warnings alone do
not fail the lint.`,
	Example: `  heralint lint
  heralint lint --bundle ./playbooks
  heralint lint --compat --strict-compat
  heralint lint --compat --compat-write --backup-ext .orig
  heralint lint | jq .summary`,
	GroupID: GroupValidation,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return NewExitError(ExitInvalidArguments)
		}
		applyLintFlags(cmd, cfg)
		return runLint(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	lintCmd.Flags().String("bundle", "", "Bundle root directory (overrides config)")
	lintCmd.Flags().Bool("compat", false, "Normalize legacy field names before validation")
	lintCmd.Flags().Bool("compat-write", false, "Persist normalized documents back to disk (implies --compat)")
	lintCmd.Flags().Bool("strict-compat", false, "Treat needed-but-unwritten rewrites as errors (implies --compat)")
	lintCmd.Flags().String("backup-ext", "", "Backup suffix for rewritten files (default .bak)")
	lintCmd.Flags().BoolVar(&lintQuietFlag, "quiet", false, "Suppress the report JSON on stdout")
	rootCmd.AddCommand(lintCmd)
}

// applyLintFlags overlays command-line flags onto the loaded
// configuration. Only flags the user actually set are applied.
func applyLintFlags(cmd *cobra.Command, cfg *config.Configuration) {
	if cmd.Flags().Changed("bundle") {
		cfg.BundleDir, _ = cmd.Flags().GetString("bundle")
	}
	if cmd.Flags().Changed("compat") {
		cfg.Compat, _ = cmd.Flags().GetBool("compat")
	}
	if cmd.Flags().Changed("compat-write") {
		cfg.CompatWrite, _ = cmd.Flags().GetBool("compat-write")
	}
	if cmd.Flags().Changed("strict-compat") {
		cfg.StrictCompat, _ = cmd.Flags().GetBool("strict-compat")
	}
	if cmd.Flags().Changed("backup-ext") {
		cfg.BackupExt, _ = cmd.Flags().GetString("backup-ext")
	}
	if cfg.CompatWrite || cfg.StrictCompat {
		cfg.Compat = true
	}
}

// runLint executes one lint run against the configured bundle and
// renders the report. Shared with the watch command.
func runLint(cfg *config.Configuration, out, errOut io.Writer) error {
	linter := lint.New(lint.Options{
		BundleDir:    cfg.BundleDir,
		VocabPath:    cfg.VocabPath,
		Compat:       cfg.Compat,
		CompatWrite:  cfg.CompatWrite,
		StrictCompat: cfg.StrictCompat,
		BackupExt:    cfg.BackupExt,
	})

	var spin *spinner.Spinner
	if cfg.ShowProgress && term.IsTerminal(int(os.Stderr.Fd())) {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		spin.Writer = os.Stderr
		spin.Suffix = fmt.Sprintf(" Linting %s", cfg.BundleDir)
		spin.Start()
	}

	report, err := linter.Run()
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return NewExitError(ExitIOError)
	}

	if !lintQuietFlag {
		data, jsonErr := report.JSON()
		if jsonErr != nil {
			fmt.Fprintf(errOut, "Error: %v\n", jsonErr)
			return NewExitError(ExitIOError)
		}
		fmt.Fprintln(out, string(data))
	}
	printReport(report, errOut)

	if report.HasErrors() {
		return NewExitError(ExitValidationFailed)
	}
	return nil
}

// printReport renders a lint report summary for human consumption.
func printReport(report *lint.Report, out io.Writer) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for _, f := range report.Errors {
		printFinding(out, red("✗"), f)
	}
	for _, f := range report.Warnings {
		printFinding(out, yellow("!"), f)
	}
	for _, f := range report.Info {
		printFinding(out, dim("·"), f)
	}

	if len(report.Artifacts) > 0 {
		fmt.Fprintf(out, "\nArtifacts:\n")
		for _, a := range report.Artifacts {
			fmt.Fprintf(out, "  %s  %s\n", a.File, dim("("+a.Type+")"))
		}
	}

	fmt.Fprintln(out)
	if report.HasErrors() {
		fmt.Fprintf(out, "%s %d error(s), %d warning(s), %d artifact(s)\n",
			red("✗"), report.Summary.Errors, report.Summary.Warnings, report.Summary.ArtifactCount)
	} else {
		fmt.Fprintf(out, "%s bundle is valid: %d artifact(s), %d warning(s)\n",
			green("✓"), report.Summary.ArtifactCount, report.Summary.Warnings)
	}
}

func printFinding(out io.Writer, mark string, f lint.Finding) {
	if f.File != "" {
		fmt.Fprintf(out, "%s [%s] %s: %s\n", mark, f.ID, f.File, f.Message)
		return
	}
	fmt.Fprintf(out, "%s [%s] %s\n", mark, f.ID, f.Message)
}
