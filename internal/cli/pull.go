package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/schema-management/v1/schema_registry"
	"github.com/Aleph-Alpha/schema-management/v1/schemafile"
)

func (a *app) pullCommand() *cobra.Command {
	var (
		subject     string
		output      string
		version     int
		registryURL string
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download a schema from the Schema Registry",
		Long: `Fetch the latest (or --version) schema registered under a subject and
write it to --output, or <subject>.schema.json by default. JSON schemas are
pretty-printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			url := a.registryURL(cmd, registryURL, cfg)

			fmt.Fprintf(out, "Pulling schema from: %s\n", url)
			fmt.Fprintf(out, "   Subject: %s\n", subject)
			if version > 0 {
				fmt.Fprintf(out, "   Version: %d\n\n", version)
			} else {
				fmt.Fprint(out, "   Version: latest\n\n")
			}

			reg, err := a.registry(url)
			if err != nil {
				return fail(out, "failed to pull schema: %v", err)
			}
			defer reg.Close()

			var metadata *schema_registry.Metadata
			if version > 0 {
				metadata, err = reg.GetSchema(cmd.Context(), subject, version)
			} else {
				metadata, err = reg.GetLatestSchema(cmd.Context(), subject)
			}
			if err != nil {
				return fail(out, "failed to pull schema: %v", err)
			}

			path := output
			if path == "" {
				path = subject + ".schema.json"
			}
			if err := schemafile.WriteSchema(path, metadata.Schema); err != nil {
				return fail(out, "failed to pull schema: %v", err)
			}

			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			fmt.Fprintf(out, "Schema saved to: %s\n", path)
			fmt.Fprintf(out, "   Subject:   %s\n", metadata.Subject)
			fmt.Fprintf(out, "   Version:   %d\n", metadata.Version)
			fmt.Fprintf(out, "   Schema ID: %d\n", metadata.ID)
			fmt.Fprintf(out, "   Type:      %s\n", metadata.SchemaType)
			return nil
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Registry subject to pull")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write the schema to")
	cmd.Flags().IntVarP(&version, "version", "v", 0, "Schema version to pull (default latest)")
	cmd.Flags().StringVarP(&registryURL, "registry-url", "r", schemafile.DefaultRegistryURL, "Schema Registry URL")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
