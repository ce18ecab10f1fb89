package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schema-management/v1/kafka"
	"github.com/Aleph-Alpha/schema-management/v1/logger"
	"github.com/Aleph-Alpha/schema-management/v1/metrics"
	"github.com/Aleph-Alpha/schema-management/v1/postgres"
	"github.com/Aleph-Alpha/schema-management/v1/rabbit"
	"github.com/Aleph-Alpha/schema-management/v1/schema_registry"
	"github.com/Aleph-Alpha/schema-management/v1/tracer"
)

// FXModule wires the user API: store, request validation, change events,
// handlers and the HTTP server.
//
// Dependencies required by this module:
// - A users.Config instance
// - A logger.Logger instance
// - *postgres.Postgres when Config.Store is "postgres"
// - schema_registry.Registry when Config.SchemaSubject is set
//
// Optional: metrics.MetricsCollector, *tracer.Tracer, *kafka.Producer,
// *rabbit.Publisher.
var FXModule = fx.Module("users",
	fx.Provide(
		NewStoreWithDI,
		NewValidatorWithDI,
		NewNotifierWithDI,
		NewHandler,
		NewServerWithDI,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// StoreParams groups the dependencies for NewStoreWithDI.
type StoreParams struct {
	fx.In

	Config   Config
	Postgres *postgres.Postgres `optional:"true"`
}

// NewStoreWithDI returns the backend selected by Config.Store.
func NewStoreWithDI(params StoreParams) (Store, error) {
	switch params.Config.Store {
	case "", StoreMemory:
		return NewMemoryStore(SeedUsers()...), nil
	case StorePostgres:
		if params.Postgres == nil {
			return nil, errors.New("users: postgres store selected but no database is configured")
		}
		return NewPostgresStore(params.Postgres)
	default:
		return nil, fmt.Errorf("users: unknown store %q", params.Config.Store)
	}
}

// ValidatorParams groups the dependencies for NewValidatorWithDI.
type ValidatorParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    Config
	Logger    logger.Logger
	Registry  schema_registry.Registry `optional:"true"`
}

// NewValidatorWithDI returns a RegistryValidator when a schema subject is
// configured and a StaticValidator over the reflected schema otherwise.
func NewValidatorWithDI(params ValidatorParams) (Validator, error) {
	if params.Config.SchemaSubject == "" {
		schema, err := RequestSchema()
		if err != nil {
			return nil, err
		}
		return StaticValidator{Schema: schema}, nil
	}

	if params.Registry == nil {
		return nil, errors.New("users: schema subject set but no schema registry is configured")
	}
	v := &RegistryValidator{Registry: params.Registry, Subject: params.Config.SchemaSubject}

	if params.Config.RegisterSchema {
		params.Lifecycle.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				id, err := RegisterRequestSchema(ctx, params.Registry, params.Config.SchemaSubject)
				if err != nil {
					return err
				}
				v.Refresh()
				params.Logger.Info("Registered user request schema", nil, map[string]interface{}{
					"subject": params.Config.SchemaSubject,
					"id":      id,
				})
				return nil
			},
		})
	}
	return v, nil
}

// NotifierParams groups the dependencies for NewNotifierWithDI.
type NotifierParams struct {
	fx.In

	Logger   logger.Logger
	Producer *kafka.Producer   `optional:"true"`
	Rabbit   *rabbit.Publisher `optional:"true"`
	Tracer   *tracer.Tracer    `optional:"true"`
}

// NewNotifierWithDI publishes through Kafka when a producer is available,
// otherwise through RabbitMQ. With neither it returns nil, which disables
// events.
func NewNotifierWithDI(params NotifierParams) *Notifier {
	var publisher Publisher
	switch {
	case params.Producer != nil:
		publisher = params.Producer
	case params.Rabbit != nil:
		publisher = params.Rabbit
	default:
		return nil
	}

	var headers func(ctx context.Context) map[string]string
	if params.Tracer != nil {
		headers = params.Tracer.GetCarrier
	}
	return NewNotifier(publisher, headers, params.Logger)
}

// ServerParams groups the dependencies for NewServerWithDI.
type ServerParams struct {
	fx.In

	Handler *Handler
	Logger  logger.Logger
	Metrics metrics.MetricsCollector `optional:"true"`
	Tracer  *tracer.Tracer           `optional:"true"`
}

// NewServerWithDI is NewServer for fx.
func NewServerWithDI(params ServerParams) *echo.Echo {
	return NewServer(params.Handler, params.Logger, params.Metrics, params.Tracer)
}

// RegisterServerLifecycle serves the API in the background on start and
// shuts it down gracefully on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, e *echo.Echo, cfg Config, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("Starting user API", nil, map[string]interface{}{
					"address": cfg.Address,
					"store":   cfg.Store,
				})
				if err := e.Start(cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("User API server stopped", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down user API", nil, nil)
			return e.Shutdown(ctx)
		},
	})
}
