package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/schema-management/v1/codegen"
	"github.com/Aleph-Alpha/schema-management/v1/schemafile"
)

func (a *app) generateCommand() *cobra.Command {
	var (
		input     string
		output    string
		namespace string
		records   bool
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go types from JSON Schema files",
		Long: `Generate a Go source file from one JSON Schema file, or with --all from
every *.schema.json file below the input directory.

The output directory and namespace default to the config file's
outputDirectory and defaultNamespace.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.OutputDirectory
			}
			if namespace == "" {
				namespace = cfg.DefaultNamespace
			}
			style := codegen.StyleStruct
			if records {
				style = codegen.StyleRecord
			}

			out := cmd.OutOrStdout()
			if all {
				return a.generateAll(out, input, output, namespace, style)
			}

			fmt.Fprintf(out, "Generating Go type from: %s\n", input)
			result := codegen.GenerateFromFile(input, output, namespace, style)
			if !result.Success {
				a.log.Error("Code generation failed", result.Err, map[string]interface{}{"input": input})
				return fail(out, "%s", result.ErrorMessage)
			}

			fmt.Fprintf(out, "Generated: %s\n", result.OutputPath)
			fmt.Fprintf(out, "   Type:      %s.%s\n", result.Package, result.TypeName)
			fmt.Fprintf(out, "   Lines:     %d\n", result.LinesGenerated)
			fmt.Fprintf(out, "   Style:     %s\n", style)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "JSON Schema file, or directory with --all")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory for generated files")
	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Dotted namespace; its last segment names the Go package")
	cmd.Flags().BoolVarP(&records, "records", "r", false, "Generate immutable value types with With<Field> methods")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Generate every schema file found under --input")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (a *app) generateAll(out io.Writer, input, output, namespace string, style codegen.Style) error {
	files, err := schemafile.DiscoverSchemas(input, schemafile.DefaultPattern)
	if err != nil {
		return fail(out, "%v", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No schema files found in: %s\n", input)
		return nil
	}

	fmt.Fprintf(out, "Found %d schema file(s) in: %s\n\n", len(files), input)

	succeeded := 0
	for _, file := range files {
		result := codegen.GenerateFromFile(file, output, namespace, style)
		if !result.Success {
			a.log.Warn("Code generation failed", result.Err, map[string]interface{}{"input": file})
			fmt.Fprintf(out, "  FAILED %s: %s\n", filepath.Base(file), result.ErrorMessage)
			continue
		}
		succeeded++
		fmt.Fprintf(out, "  OK     %s -> %s (%d lines)\n", filepath.Base(file), filepath.Base(result.OutputPath), result.LinesGenerated)
	}

	absOutput, err := filepath.Abs(output)
	if err != nil {
		absOutput = output
	}
	fmt.Fprintf(out, "\nGenerated %d/%d types in: %s\n", succeeded, len(files), absOutput)

	if succeeded < len(files) {
		return errReported
	}
	return nil
}
