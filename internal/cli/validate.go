package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/schema-management/v1/codegen"
)

func (a *app) validateCommand() *cobra.Command {
	var schemaPath, dataPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON document against a JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Validating data against schema...")
			fmt.Fprintf(out, "   Schema: %s\n", schemaPath)
			fmt.Fprintf(out, "   Data:   %s\n\n", dataPath)

			result := codegen.ValidateFiles(schemaPath, dataPath)
			if result.IsValid {
				fmt.Fprintln(out, "Validation PASSED: data conforms to the schema.")
				return nil
			}

			fmt.Fprintf(out, "Validation FAILED: %d error(s) found:\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(out, "   - %s\n", e)
			}
			a.log.Debug("Validation failed", nil, map[string]interface{}{
				"schema": schemaPath,
				"data":   dataPath,
				"errors": len(result.Errors),
			})
			return errReported
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "JSON Schema file")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON document to validate")
	_ = cmd.MarkFlagRequired("schema")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
