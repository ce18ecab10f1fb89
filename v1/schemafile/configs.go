package schemafile

import (
	"path/filepath"
	"strings"
)

const (
	// ConfigFileName is the file InitConfig creates and commands read by default.
	ConfigFileName = "schema-config.json"

	// DefaultPattern matches schema files during discovery.
	DefaultPattern = "*.schema.json"

	DefaultRegistryURL      = "http://localhost:8081"
	DefaultSchemasDirectory = "schemas"
	DefaultOutputDirectory  = "generated"
	DefaultNamespace        = "generated"
	DefaultSchemaType       = "JSON"
)

// TopicSchemaBinding associates a Kafka topic with the schema file, subject
// and namespace used to generate and register its value schema.
type TopicSchemaBinding struct {
	TopicName  string `json:"topicName" yaml:"topicName"`
	Subject    string `json:"subject" yaml:"subject"`
	SchemaFile string `json:"schemaFile" yaml:"schemaFile"`
	Namespace  string `json:"namespace" yaml:"namespace"`
	SchemaType string `json:"schemaType" yaml:"schemaType"`
}

// Config is the schema-management configuration file. It is loaded and
// saved as a whole; the file is the single source of truth for bindings.
type Config struct {
	RegistryURL      string               `json:"registryUrl" yaml:"registryUrl"`
	SchemasDirectory string               `json:"schemasDirectory" yaml:"schemasDirectory"`
	OutputDirectory  string               `json:"outputDirectory" yaml:"outputDirectory"`
	DefaultNamespace string               `json:"defaultNamespace" yaml:"defaultNamespace"`
	TopicBindings    []TopicSchemaBinding `json:"topicBindings" yaml:"topicBindings"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		RegistryURL:      DefaultRegistryURL,
		SchemasDirectory: DefaultSchemasDirectory,
		OutputDirectory:  DefaultOutputDirectory,
		DefaultNamespace: DefaultNamespace,
		TopicBindings:    []TopicSchemaBinding{},
	}
}

// Binding returns the binding for topic, if one is configured.
func (c Config) Binding(topic string) (TopicSchemaBinding, bool) {
	for _, b := range c.TopicBindings {
		if b.TopicName == topic {
			return b, true
		}
	}
	return TopicSchemaBinding{}, false
}

// SubjectFor returns the binding's subject, defaulting to "<topic>-value".
func (b TopicSchemaBinding) SubjectFor() string {
	if b.Subject != "" {
		return b.Subject
	}
	return b.TopicName + "-value"
}

// NamespaceOr returns the binding's namespace, or fallback when unset.
func (b TopicSchemaBinding) NamespaceOr(fallback string) string {
	if b.Namespace != "" {
		return b.Namespace
	}
	return fallback
}

// ResolvePath interprets a path from the config relative to the directory
// holding the config file. Absolute paths are returned unchanged.
func ResolvePath(configPath, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(configPath), path)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
