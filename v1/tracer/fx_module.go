package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schema-management/v1/logger"
)

// FXModule provides *Tracer and flushes it when the application stops.
//
// Dependencies required by this module:
// - A tracer.Config instance
// - A logger.Logger instance
var FXModule = fx.Module("tracer",
	fx.Provide(
		func(cfg Config, log logger.Logger) (*Tracer, error) {
			return NewClient(cfg, log)
		},
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle shuts the tracer provider down on stop so that
// batched spans are exported before exit.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("Shutting down tracer", nil, nil)
			if tracer.tracer == nil {
				tracer.logger.Warn("Tracer was nil during shutdown", nil, nil)
				return nil
			}
			return tracer.Shutdown(ctx)
		},
	})
}
