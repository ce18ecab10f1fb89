package kafka

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

// FXModule provides a *Producer built from the Config in the container and
// closes it when the application stops.
var FXModule = fx.Module("kafka",
	fx.Provide(NewProducerWithDI),
	fx.Invoke(RegisterProducerLifecycle),
)

// ProducerParams groups the dependencies needed to create a Producer.
type ProducerParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewProducerWithDI creates a Producer using dependency injection.
func NewProducerWithDI(params ProducerParams) (*Producer, error) {
	producer, err := newProducer(params.Config, params.Logger)
	if err != nil {
		return nil, err
	}
	if params.Observer != nil {
		producer.WithObserver(params.Observer)
	}
	return producer, nil
}

// RegisterProducerLifecycle flushes and closes the producer on shutdown.
func RegisterProducerLifecycle(lc fx.Lifecycle, producer *Producer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})
}
