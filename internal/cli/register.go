package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/schema-management/v1/codegen"
	"github.com/Aleph-Alpha/schema-management/v1/schema_registry"
	"github.com/Aleph-Alpha/schema-management/v1/schemafile"
)

// errIncompatible is returned when the registry rejects a candidate schema
// under the subject's compatibility rule.
var errIncompatible = errors.New("schema is not compatible with the latest registered version")

func (a *app) registerCommand() *cobra.Command {
	var (
		schemaPath  string
		subject     string
		topic       string
		registryURL string
		check       bool
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a JSON Schema with the Schema Registry",
		Long: `Register a JSON Schema file under a subject. The subject is --subject, or
"<topic>-value" when only --topic is given.

With --check-compatibility (the default) the schema is first tested against
the latest registered version. An incompatible schema or a failed check
aborts the registration; a subject without versions is registered as is.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			resolved := resolveSubject(subject, topic)
			if resolved == "" {
				return fail(out, "you must provide either --subject or --topic")
			}

			schema, err := schemafile.ReadSchema(schemaPath)
			if err != nil {
				return fail(out, "%v", err)
			}

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			url := a.registryURL(cmd, registryURL, cfg)

			fmt.Fprintf(out, "Registering schema to: %s\n", url)
			fmt.Fprintf(out, "   Subject:   %s\n", resolved)
			fmt.Fprintf(out, "   Schema:    %s\n\n", filepath.Base(schemaPath))

			reg, err := a.registry(url)
			if err != nil {
				return fail(out, "registration failed: %v", err)
			}
			defer reg.Close()

			id, err := a.registerWithCheck(cmd.Context(), out, reg, resolved, schema, check)
			if err != nil {
				return fail(out, "registration failed: %v", err)
			}

			fmt.Fprintln(out, "Schema registered successfully")
			fmt.Fprintf(out, "   Schema ID: %d\n", id)
			fmt.Fprintf(out, "   Subject:   %s\n", resolved)
			return nil
		},
	}

	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "JSON Schema file to register")
	cmd.Flags().StringVar(&subject, "subject", "", "Registry subject, e.g. order-events-value")
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Kafka topic; the subject becomes <topic>-value")
	cmd.Flags().StringVarP(&registryURL, "registry-url", "r", schemafile.DefaultRegistryURL, "Schema Registry URL")
	cmd.Flags().BoolVarP(&check, "check-compatibility", "c", true, "Test compatibility before registering")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func resolveSubject(subject, topic string) string {
	if s := strings.TrimSpace(subject); s != "" {
		return s
	}
	if t := strings.TrimSpace(topic); t != "" {
		return schema_registry.TopicValueSubject(t)
	}
	return ""
}

// registerWithCheck registers schema under subject, optionally testing it
// against the latest version first. Only a subject without versions skips
// the comparison; any other check failure aborts.
func (a *app) registerWithCheck(ctx context.Context, out io.Writer, reg schema_registry.Registry, subject, schema string, check bool) (int, error) {
	if check {
		compat, err := reg.TestCompatibility(ctx, subject, schema)
		if err != nil {
			return 0, fmt.Errorf("compatibility check failed: %w", err)
		}

		switch compat {
		case schema_registry.Compatible:
			fmt.Fprintln(out, "   Compatibility check passed")
		case schema_registry.NoPriorVersion:
			a.log.Warn("No prior version registered, skipping compatibility check", nil, map[string]interface{}{
				"subject": subject,
			})
			fmt.Fprintln(out, "   No existing schema found, skipping compatibility check")
		}

		if !compat.Allows() {
			fmt.Fprintln(out, "   Use --check-compatibility=false to skip this check.")
			return 0, errIncompatible
		}
	}

	id, err := reg.RegisterSchema(ctx, subject, schema)
	if err != nil {
		return 0, err
	}
	a.log.Info("Schema registered", nil, map[string]interface{}{
		"subject": subject,
		"id":      id,
	})
	return id, nil
}

func (a *app) syncCommand() *cobra.Command {
	var (
		registryURL string
		check       bool
		generate    bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Register every schema bound to a topic in the config file",
		Long: `Walk the topicBindings of the config file and register each binding's
schema file under its subject. Relative paths are resolved against the
config file's directory. With --generate, Go types are generated for each
binding into the configured output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if len(cfg.TopicBindings) == 0 {
				fmt.Fprintf(out, "No topic bindings configured in: %s\n", a.configPath)
				return nil
			}

			url := a.registryURL(cmd, registryURL, cfg)
			reg, err := a.registry(url)
			if err != nil {
				return fail(out, "failed to connect to registry: %v", err)
			}
			defer reg.Close()

			fmt.Fprintf(out, "Syncing %d binding(s) to: %s\n\n", len(cfg.TopicBindings), url)

			failed := 0
			for _, binding := range cfg.TopicBindings {
				if err := a.syncBinding(cmd.Context(), out, reg, cfg, binding, check, generate); err != nil {
					failed++
					a.log.Error("Binding sync failed", err, map[string]interface{}{"topic": binding.TopicName})
					fmt.Fprintf(out, "  FAILED %s: %v\n", binding.TopicName, err)
				}
			}

			fmt.Fprintf(out, "\nSynced %d/%d binding(s)\n", len(cfg.TopicBindings)-failed, len(cfg.TopicBindings))
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&registryURL, "registry-url", "r", schemafile.DefaultRegistryURL, "Schema Registry URL")
	cmd.Flags().BoolVarP(&check, "check-compatibility", "c", true, "Test compatibility before registering")
	cmd.Flags().BoolVar(&generate, "generate", false, "Also generate Go types for each binding")
	return cmd
}

func (a *app) syncBinding(ctx context.Context, out io.Writer, reg schema_registry.Registry, cfg schemafile.Config, binding schemafile.TopicSchemaBinding, check, generate bool) error {
	if t := binding.SchemaType; t != "" && !strings.EqualFold(t, schema_registry.SchemaTypeJSON) {
		return fmt.Errorf("unsupported schema type %q", t)
	}

	path := schemafile.ResolvePath(a.configPath, binding.SchemaFile)
	schema, err := schemafile.ReadSchema(path)
	if err != nil {
		return err
	}

	subject := binding.SubjectFor()
	id, err := a.registerWithCheck(ctx, io.Discard, reg, subject, schema, check)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  OK     %s -> %s (id %d)\n", binding.TopicName, subject, id)

	if generate {
		outputDir := schemafile.ResolvePath(a.configPath, cfg.OutputDirectory)
		result := codegen.Generate(schema, outputDir, binding.NamespaceOr(cfg.DefaultNamespace), codegen.StyleStruct)
		if !result.Success {
			return fmt.Errorf("code generation failed: %s", result.ErrorMessage)
		}
		fmt.Fprintf(out, "         generated %s\n", result.OutputPath)
	}
	return nil
}
