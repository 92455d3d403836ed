package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/heraerp/heralint/internal/txn"
)

var txnCmd = &cobra.Command{
	Use:     "txn",
	Short:   "Transaction bundle validation",
	GroupID: GroupValidation,
}

var txnValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a transaction bundle before posting",
	Long: `Validate a transaction bundle before posting.

The bundle is a {header, lines} document in YAML or JSON, read from the
given file or from stdin when no file is given. Validation is fail-fast:
the first violation is printed as [TX_VALIDATE_ERROR] <code>: <message>
and the command exits non-zero. On success the normalized bundle summary
and any warnings are printed.`,
	Example: `  heralint txn validate order.yaml
  heralint txn validate order.json --compat
  cat order.yaml | heralint txn validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		compat, _ := cmd.Flags().GetBool("compat")
		return runTxnValidate(args, compat, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	txnValidateCmd.Flags().Bool("compat", false, "Normalize legacy field names before validation")
	txnCmd.AddCommand(txnValidateCmd)
	rootCmd.AddCommand(txnCmd)
}

// runTxnValidate reads a bundle document and runs the guard against it.
func runTxnValidate(args []string, compat bool, in io.Reader, out, errOut io.Writer) error {
	var data []byte
	var err error
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			fmt.Fprintf(errOut, "Error: cannot read bundle file: %v\n", err)
			return NewExitError(ExitInvalidArguments)
		}
	} else {
		data, err = io.ReadAll(in)
		if err != nil {
			fmt.Fprintf(errOut, "Error: cannot read stdin: %v\n", err)
			return NewExitError(ExitIOError)
		}
	}

	// yaml.v3 accepts JSON input, so one decode path covers both.
	var bundle txn.Bundle
	if err := yaml.Unmarshal(data, &bundle); err != nil {
		fmt.Fprintf(errOut, "Error: cannot parse bundle: %v\n", err)
		return NewExitError(ExitInvalidArguments)
	}
	if bundle.Header == nil {
		fmt.Fprintf(errOut, "Error: bundle has no header object\n")
		return NewExitError(ExitInvalidArguments)
	}

	result, err := txn.ValidateBundle(bundle.Header, bundle.Lines, txn.Options{Compat: compat})
	if err != nil {
		var guardErr *txn.GuardError
		if errors.As(err, &guardErr) {
			fmt.Fprintf(errOut, "[TX_VALIDATE_ERROR] %s: %s\n", guardErr.Code, guardErr.Message)
		} else {
			fmt.Fprintf(errOut, "[TX_VALIDATE_ERROR] %v\n", err)
		}
		return NewExitError(ExitValidationFailed)
	}

	printTxnResult(result, out)
	return nil
}

// printTxnResult renders the normalized bundle summary.
func printTxnResult(result *txn.Result, out io.Writer) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(out, "%s transaction bundle is valid\n", green("✓"))
	fmt.Fprintf(out, "  type:     %s\n", result.Header.TransactionType)
	fmt.Fprintf(out, "  date:     %s\n", result.Header.TransactionDate)
	fmt.Fprintf(out, "  status:   %s\n", result.Header.Status)
	fmt.Fprintf(out, "  currency: %s\n", result.Header.CurrencyCode)
	if result.Header.TotalAmount != nil {
		fmt.Fprintf(out, "  total:    %v\n", *result.Header.TotalAmount)
	}
	fmt.Fprintf(out, "  lines:    %d\n", len(result.Lines))

	for _, w := range result.Warnings {
		fmt.Fprintf(out, "%s %s\n", yellow("!"), w)
	}
}
