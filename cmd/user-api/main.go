// Package main starts the demo user API.
package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Aleph-Alpha/schema-management/internal/config"
	"github.com/Aleph-Alpha/schema-management/internal/users"
	"github.com/Aleph-Alpha/schema-management/v1/kafka"
	"github.com/Aleph-Alpha/schema-management/v1/logger"
	"github.com/Aleph-Alpha/schema-management/v1/metrics"
	"github.com/Aleph-Alpha/schema-management/v1/observability"
	"github.com/Aleph-Alpha/schema-management/v1/postgres"
	"github.com/Aleph-Alpha/schema-management/v1/rabbit"
	"github.com/Aleph-Alpha/schema-management/v1/schema_registry"
	"github.com/Aleph-Alpha/schema-management/v1/tracer"
)

// appConfig is everything the process reads from the environment.
type appConfig struct {
	Users    users.Config
	Logger   logger.Config
	Metrics  metrics.Config
	Tracer   tracer.Config
	Postgres postgres.Config
	Registry schema_registry.Config
	Kafka    kafka.Config
	Rabbit   rabbit.Config
}

func main() {
	var cfg appConfig
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatalf("user-api: %v", err)
	}
	if cfg.Logger.ServiceName == "" {
		cfg.Logger.ServiceName = users.ServiceName
	}

	fx.New(appOptions(cfg)...).Run()
}

// appOptions assembles the fx graph. Postgres, the schema registry and the
// event publisher are only wired when the configuration asks for them.
// Kafka takes precedence over RabbitMQ for user events.
func appOptions(cfg appConfig) []fx.Option {
	opts := []fx.Option{
		fx.Supply(cfg.Users, cfg.Logger, cfg.Metrics, cfg.Tracer),
		fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		fx.Provide(
			func(m *metrics.Metrics) observability.Observer { return m },
		),
		users.FXModule,
	}

	if cfg.Users.Store == users.StorePostgres {
		opts = append(opts,
			fx.Supply(cfg.Postgres),
			postgres.FXModule,
		)
	}

	if cfg.Users.SchemaSubject != "" {
		opts = append(opts,
			fx.Supply(cfg.Registry),
			fx.Provide(func(l logger.Logger) schema_registry.Logger { return l }),
			schema_registry.FXModule,
		)
	}

	if cfg.Users.EventsTopic != "" && len(cfg.Kafka.Brokers) > 0 {
		kafkaCfg := cfg.Kafka
		kafkaCfg.Topic = cfg.Users.EventsTopic
		opts = append(opts,
			fx.Supply(kafkaCfg),
			fx.Provide(func(l logger.Logger) kafka.Logger { return l }),
			kafka.FXModule,
		)
	} else if cfg.Rabbit.Connection.Host != "" {
		opts = append(opts,
			fx.Supply(cfg.Rabbit),
			fx.Provide(func(l logger.Logger) rabbit.Logger { return l }),
			rabbit.FXModule,
		)
	}

	return opts
}
