package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/schema-management/v1/schema_registry"
	"github.com/Aleph-Alpha/schema-management/v1/schemafile"
)

const (
	// previewLength caps the schema text printed per subject in verbose mode.
	previewLength = 120

	describeConcurrency = 4
)

func (a *app) listCommand() *cobra.Command {
	var (
		registryURL string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the subjects registered in the Schema Registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			url := a.registryURL(cmd, registryURL, cfg)
			fmt.Fprintf(out, "Listing schemas from: %s\n\n", url)

			reg, err := a.registry(url)
			if err != nil {
				return fail(out, "failed to connect to registry: %v", err)
			}
			defer reg.Close()

			subjects, err := reg.ListSubjects(cmd.Context())
			if err != nil {
				return fail(out, "failed to connect to registry: %v", err)
			}
			if len(subjects) == 0 {
				fmt.Fprintln(out, "   No subjects found in the registry.")
				return nil
			}

			fmt.Fprintf(out, "   Found %d subject(s):\n\n", len(subjects))
			if !verbose {
				for _, subject := range subjects {
					fmt.Fprintf(out, "   - %s\n", subject)
				}
				return nil
			}

			for _, detail := range a.describeSubjects(cmd.Context(), reg, subjects) {
				detail.print(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&registryURL, "registry-url", "r", schemafile.DefaultRegistryURL, "Schema Registry URL")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show id, versions, type and compatibility per subject")
	return cmd
}

// subjectDetail is one verbose list entry. err is set when the subject
// could not be described.
type subjectDetail struct {
	subject       string
	metadata      *schema_registry.Metadata
	versions      []int
	compatibility string
	err           error
}

// describeSubjects looks up every subject with at most describeConcurrency
// requests in flight. Results keep the order of subjects and a failure only
// affects its own entry.
func (a *app) describeSubjects(ctx context.Context, reg schema_registry.Registry, subjects []string) []subjectDetail {
	details := make([]subjectDetail, len(subjects))

	var g errgroup.Group
	g.SetLimit(describeConcurrency)
	for i, subject := range subjects {
		g.Go(func() error {
			details[i] = a.describeSubject(ctx, reg, subject)
			return nil
		})
	}
	_ = g.Wait()
	return details
}

func (a *app) describeSubject(ctx context.Context, reg schema_registry.Registry, subject string) subjectDetail {
	detail := subjectDetail{subject: subject}

	detail.metadata, detail.err = reg.GetLatestSchema(ctx, subject)
	if detail.err != nil {
		a.log.Warn("Failed to describe subject", detail.err, map[string]interface{}{"subject": subject})
		return detail
	}
	detail.versions, detail.err = reg.GetVersions(ctx, subject)
	if detail.err != nil {
		a.log.Warn("Failed to list versions", detail.err, map[string]interface{}{"subject": subject})
		return detail
	}

	compatibility, err := reg.GetCompatibilityLevel(ctx, subject)
	if err != nil {
		a.log.Debug("Compatibility level unavailable", err, map[string]interface{}{"subject": subject})
		compatibility = "unknown"
	}
	detail.compatibility = compatibility
	return detail
}

func (d subjectDetail) print(out io.Writer) {
	if d.err != nil {
		fmt.Fprintf(out, "   * %s  (error: %v)\n", d.subject, d.err)
		return
	}

	labels := make([]string, len(d.versions))
	for i, v := range d.versions {
		labels[i] = strconv.Itoa(v)
	}
	fmt.Fprintf(out, "   * %s  (ID: %d, Versions: %s, Type: %s, Compatibility: %s)\n",
		d.subject, d.metadata.ID, strings.Join(labels, ", "), d.metadata.SchemaType, d.compatibility)
	fmt.Fprintf(out, "      %s\n\n", preview(d.metadata.Schema))
}

func preview(schema string) string {
	runes := []rune(schema)
	if len(runes) <= previewLength {
		return schema
	}
	return string(runes[:previewLength]) + "..."
}
