package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/schema-management/v1/codegen"
	"github.com/Aleph-Alpha/schema-management/v1/kafka"
	"github.com/Aleph-Alpha/schema-management/v1/schema_registry"
	"github.com/Aleph-Alpha/schema-management/v1/schemafile"
)

func (a *app) publishCommand() *cobra.Command {
	var (
		topic       string
		dataPath    string
		subject     string
		brokers     []string
		key         string
		registryURL string
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish a JSON document to Kafka in Schema Registry wire format",
		Long: `Fetch the latest schema for the subject (--subject, the topic's binding in
the config file, or <topic>-value), encode the document with it and produce
one message framed as 0x00 | schema id | payload.

JSON subjects validate the document and publish compact JSON. AVRO subjects
read the document in Avro's JSON encoding and publish Avro binary.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			if subject == "" {
				if binding, ok := cfg.Binding(topic); ok {
					subject = binding.SubjectFor()
				} else {
					subject = schema_registry.TopicValueSubject(topic)
				}
			}
			if !cmd.Flags().Changed("brokers") {
				brokers = a.env.KafkaBrokers
			}
			if len(brokers) == 0 {
				return fail(out, "no Kafka brokers: pass --brokers or set KAFKA_BROKERS")
			}

			document, err := os.ReadFile(dataPath)
			if err != nil {
				return fail(out, "failed to read data file: %v", err)
			}

			reg, err := a.registry(a.registryURL(cmd, registryURL, cfg))
			if err != nil {
				return fail(out, "publish failed: %v", err)
			}
			defer reg.Close()

			metadata, err := reg.GetLatestSchema(ctx, subject)
			if err != nil {
				return fail(out, "publish failed: %v", err)
			}

			payload, err := a.encode(out, metadata, document)
			if err != nil {
				return err
			}

			producer, err := a.opts.NewPublisher(kafka.Config{Brokers: brokers, Topic: topic}, a.log)
			if err != nil {
				return fail(out, "publish failed: %v", err)
			}
			defer producer.Close()

			var keyBytes []byte
			if key != "" {
				keyBytes = []byte(key)
			}
			headers := map[string]string{"schema-subject": subject}
			if err := producer.PublishWithSchema(ctx, metadata.ID, keyBytes, payload, headers); err != nil {
				return fail(out, "publish failed: %v", err)
			}

			fmt.Fprintf(out, "Published to %s\n", topic)
			fmt.Fprintf(out, "   Subject:   %s\n", subject)
			fmt.Fprintf(out, "   Schema ID: %d (version %d, %s)\n", metadata.ID, metadata.Version, metadata.SchemaType)
			fmt.Fprintf(out, "   Payload:   %d bytes\n", len(payload))
			return nil
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "Kafka topic to publish to")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON document to publish")
	cmd.Flags().StringVar(&subject, "subject", "", "Registry subject holding the schema")
	cmd.Flags().StringSliceVarP(&brokers, "brokers", "b", nil, "Kafka brokers, comma separated")
	cmd.Flags().StringVarP(&key, "key", "k", "", "Message key")
	cmd.Flags().StringVarP(&registryURL, "registry-url", "r", schemafile.DefaultRegistryURL, "Schema Registry URL")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

// encode turns document into the payload for metadata's schema type.
func (a *app) encode(out io.Writer, metadata *schema_registry.Metadata, document []byte) ([]byte, error) {
	var serializer kafka.Serializer

	switch strings.ToUpper(metadata.SchemaType) {
	case schema_registry.SchemaTypeJSON:
		result := codegen.Validate(metadata.Schema, string(document))
		if !result.IsValid {
			fmt.Fprintf(out, "FAILED: document does not match %s version %d:\n", metadata.Subject, metadata.Version)
			for _, e := range result.Errors {
				fmt.Fprintf(out, "   - %s\n", e)
			}
			return nil, errReported
		}
		serializer = kafka.JSONSerializer{}
	case schema_registry.SchemaTypeAvro:
		avro, err := kafka.NewAvroSerializer(metadata.Schema)
		if err != nil {
			return nil, fail(out, "%v", err)
		}
		serializer = avro
	default:
		return nil, fail(out, "unsupported schema type %q", metadata.SchemaType)
	}

	payload, err := serializer.Serialize(document)
	if err != nil {
		return nil, fail(out, "%v", err)
	}
	return payload, nil
}
