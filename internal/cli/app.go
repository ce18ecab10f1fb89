// Package cli implements schemactl, the command line front end for schema
// generation, validation and Confluent Schema Registry management.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aleph-Alpha/schema-management/internal/config"
	"github.com/Aleph-Alpha/schema-management/v1/kafka"
	"github.com/Aleph-Alpha/schema-management/v1/logger"
	"github.com/Aleph-Alpha/schema-management/v1/observability"
	"github.com/Aleph-Alpha/schema-management/v1/schema_registry"
	"github.com/Aleph-Alpha/schema-management/v1/schemafile"
)

// ServiceName identifies schemactl in log entries.
const ServiceName = "schemactl"

// errReported marks a failure whose message has already been printed.
var errReported = errors.New("command failed")

// Env holds the settings schemactl reads from the environment. Flags
// override them; they override the config file.
type Env struct {
	RegistryURL      string   `env:"SCHEMA_REGISTRY_URL"`
	RegistryUser     string   `env:"SCHEMA_REGISTRY_USER"`
	RegistryPassword string   `env:"SCHEMA_REGISTRY_PASSWORD"`
	LogLevel         string   `env:"SCHEMACTL_LOG_LEVEL"`
	KafkaBrokers     []string `env:"KAFKA_BROKERS" envSeparator:","`
}

// RegistryFactory opens a registry client for one command invocation.
type RegistryFactory func(cfg schema_registry.Config, log schema_registry.Logger) (schema_registry.Registry, error)

// Publisher is the part of *kafka.Producer the publish command uses.
type Publisher interface {
	PublishWithSchema(ctx context.Context, schemaID int, key, value []byte, headers map[string]string) error
	Close() error
}

// PublisherFactory opens a Kafka producer for one command invocation.
type PublisherFactory func(cfg kafka.Config, log kafka.Logger) (Publisher, error)

// Options customises where schemactl reads settings from and writes to.
// Zero values select the process defaults.
type Options struct {
	Stdout io.Writer
	Stderr io.Writer

	// Environment replaces the process environment when non-nil.
	Environment map[string]string

	// Logger replaces the stderr JSON logger built from --log-level.
	Logger *logger.LoggerClient

	NewRegistry  RegistryFactory
	NewPublisher PublisherFactory
}

type app struct {
	opts Options
	env  Env
	log  *logger.LoggerClient

	configPath string
	logLevel   string
}

// Run executes schemactl with args and returns the process exit code:
// 0 on success and 1 on any reported failure.
func Run(ctx context.Context, args []string, opts Options) (code int) {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.NewRegistry == nil {
		opts.NewRegistry = openRegistry
	}
	if opts.NewPublisher == nil {
		opts.NewPublisher = openPublisher
	}

	a := &app{opts: opts}
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(opts.Stderr, "Error: unexpected failure: %v\n", r)
			code = 1
		}
		if a.log != nil {
			_ = a.log.Zap.Sync()
		}
	}()

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(opts.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "schemactl",
		Short: "schemactl: JSON Schema code generation and Schema Registry management",
		Long: `schemactl turns JSON Schema documents into Go types, validates JSON
documents against them and manages their versions in a Confluent Schema
Registry.

Settings are resolved in this order: command flags, environment
(SCHEMA_REGISTRY_URL, SCHEMACTL_LOG_LEVEL, KAFKA_BROKERS), the config file,
built-in defaults.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", schemafile.ConfigFileName, "Path to the schema-management config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Diagnostic log level: debug, info, warning or error")

	root.AddCommand(
		a.generateCommand(),
		a.registerCommand(),
		a.validateCommand(),
		a.listCommand(),
		a.pullCommand(),
		a.initCommand(),
		a.syncCommand(),
		a.publishCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	if a.opts.Environment != nil {
		err = config.ParseEnvWith(&a.env, a.opts.Environment)
	} else {
		err = config.ParseEnv(&a.env)
	}
	if err != nil {
		return err
	}

	if a.opts.Logger != nil {
		a.log = a.opts.Logger
		return nil
	}

	level := logger.Warning
	switch {
	case cmd.Flags().Changed("log-level"):
		level = a.logLevel
	case a.env.LogLevel != "":
		level = a.env.LogLevel
	}
	a.log = logger.NewLoggerClient(logger.Config{
		Level:       level,
		ServiceName: ServiceName,
	})
	return nil
}

// loadConfig reads the file named by --config. A missing file yields the
// built-in defaults.
func (a *app) loadConfig() (schemafile.Config, error) {
	cfg, err := schemafile.LoadConfig(a.configPath)
	if err != nil {
		return cfg, err
	}
	a.log.Debug("Loaded config", nil, map[string]interface{}{
		"path":     a.configPath,
		"bindings": len(cfg.TopicBindings),
	})
	return cfg, nil
}

// registryURL applies flag > environment > config file > default.
func (a *app) registryURL(cmd *cobra.Command, flagValue string, cfg schemafile.Config) string {
	switch {
	case cmd.Flags().Changed("registry-url"):
		return flagValue
	case a.env.RegistryURL != "":
		return a.env.RegistryURL
	case cfg.RegistryURL != "":
		return cfg.RegistryURL
	default:
		return schemafile.DefaultRegistryURL
	}
}

func (a *app) registry(url string) (schema_registry.Registry, error) {
	return a.opts.NewRegistry(schema_registry.Config{
		URL:      url,
		Username: a.env.RegistryUser,
		Password: a.env.RegistryPassword,
	}, a.log)
}

// fail prints a failure line and returns errReported.
func fail(w io.Writer, format string, args ...interface{}) error {
	fmt.Fprintf(w, "FAILED: "+format+"\n", args...)
	return errReported
}

func openRegistry(cfg schema_registry.Config, log schema_registry.Logger) (schema_registry.Registry, error) {
	client, err := schema_registry.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	client = client.WithLogger(log)
	if dl, ok := log.(observability.DebugLogger); ok {
		client = client.WithObserver(observability.NewLogObserver(dl))
	}
	return client, nil
}

func openPublisher(cfg kafka.Config, log kafka.Logger) (Publisher, error) {
	producer, err := kafka.NewProducerWithLogger(cfg, log)
	if err != nil {
		return nil, err
	}
	if dl, ok := log.(observability.DebugLogger); ok {
		producer = producer.WithObserver(observability.NewLogObserver(dl))
	}
	return producer, nil
}
