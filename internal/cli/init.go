package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/schema-management/v1/schemafile"
)

func (a *app) initCommand() *cobra.Command {
	var directory string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a schema-management config file",
		Long: `Write schema-config.json with default settings and one example topic
binding. An existing file is left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			path, created, err := schemafile.InitConfig(directory)
			if err != nil {
				return fail(out, "failed to initialize configuration: %v", err)
			}
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}

			if !created {
				fmt.Fprintf(out, "Configuration already exists: %s\n", path)
				return nil
			}
			a.log.Info("Config file created", nil, map[string]interface{}{"path": path})

			fmt.Fprintf(out, "Configuration initialized: %s\n\n", path)
			fmt.Fprintf(out, "Edit %s to configure:\n", schemafile.ConfigFileName)
			fmt.Fprintln(out, "  - Registry URL")
			fmt.Fprintln(out, "  - Schemas directory")
			fmt.Fprintln(out, "  - Output directory and namespace")
			fmt.Fprintln(out, "  - Topic-to-schema bindings")
			return nil
		},
	}

	cmd.Flags().StringVarP(&directory, "directory", "d", ".", "Directory to create the config file in")
	return cmd
}
