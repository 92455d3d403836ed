package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heraerp/heralint/internal/contract"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [kind]",
	Short: "Print the schema for a contract kind",
	Long: `Print the declarative schema for a contract kind.

With no argument, prints the schema for every kind.

Valid kinds: ` + strings.Join(contract.KindNames(), ", "),
	Example: `  heralint schema
  heralint schema entities
  heralint schema procedure`,
	GroupID: GroupConfiguration,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			for i, kind := range contract.Kinds() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if err := printSchema(kind, out); err != nil {
					return err
				}
			}
			return nil
		}

		kind, ok := contract.ParseKind(args[0])
		if !ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: unknown contract kind %q (valid kinds: %s)\n",
				args[0], strings.Join(contract.KindNames(), ", "))
			return NewExitError(ExitInvalidArguments)
		}
		return printSchema(kind, out)
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

// printSchema prints the schema for a contract kind.
func printSchema(kind contract.Kind, out io.Writer) error {
	schema, err := contract.GetSchema(kind)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Schema for %s contracts\n", kind)
	fmt.Fprintf(out, "%s\n\n", strings.Repeat("=", 40))
	fmt.Fprintf(out, "%s\n\n", schema.Description)

	fmt.Fprintf(out, "Fields:\n")
	fmt.Fprintf(out, "%s\n", strings.Repeat("-", 40))

	for _, field := range schema.Fields {
		printSchemaField(field, "", out)
	}

	return nil
}

// printSchemaField prints a single schema field with indentation.
func printSchemaField(field contract.SchemaField, indent string, out io.Writer) {
	required := ""
	if field.Required {
		required = " (required)"
	}

	typeStr := string(field.Type)
	if len(field.Enum) > 0 {
		typeStr = fmt.Sprintf("enum[%s]", strings.Join(field.Enum, ", "))
	}

	fmt.Fprintf(out, "%s%s: %s%s\n", indent, field.Name, typeStr, required)

	if field.Description != "" {
		fmt.Fprintf(out, "%s  # %s\n", indent, field.Description)
	}

	if field.Pattern != "" {
		fmt.Fprintf(out, "%s  # pattern: %s\n", indent, field.Pattern)
	}

	// Print children for nested fields
	for _, child := range field.Children {
		printSchemaField(child, indent+"  ", out)
	}
}
