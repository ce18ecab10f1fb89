package schemafile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads the config at path. A missing file yields DefaultConfig.
// Keys absent from the file keep their default values. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(content, &cfg)
	} else {
		err = json.Unmarshal(content, &cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	if cfg.TopicBindings == nil {
		cfg.TopicBindings = []TopicSchemaBinding{}
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as indented JSON, or YAML by extension.
func SaveConfig(path string, cfg Config) error {
	if cfg.TopicBindings == nil {
		cfg.TopicBindings = []TopicSchemaBinding{}
	}

	var (
		content []byte
		err     error
	)
	if isYAML(path) {
		content, err = yaml.Marshal(cfg)
	} else {
		content, err = json.MarshalIndent(cfg, "", "  ")
		content = append(content, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return nil
}

// InitConfig creates directory/schema-config.json with the default settings
// and one example binding. An existing file is left untouched. The returned
// flag reports whether a file was written.
func InitConfig(directory string) (string, bool, error) {
	path := filepath.Join(directory, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	cfg := DefaultConfig()
	cfg.TopicBindings = []TopicSchemaBinding{
		{
			TopicName:  "order-events",
			Subject:    "order-events-value",
			SchemaFile: filepath.ToSlash(filepath.Join(DefaultSchemasDirectory, "order-event.schema.json")),
			Namespace:  DefaultNamespace,
			SchemaType: DefaultSchemaType,
		},
	}

	if err := SaveConfig(path, cfg); err != nil {
		return "", false, err
	}
	return path, true, nil
}
