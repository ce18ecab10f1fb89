package rabbit

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

// FXModule provides a *Publisher built from the Config in the container,
// keeps its connection alive while the application runs and closes it on
// shutdown.
//
// Usage:
//
//	app := fx.New(
//	    fx.Supply(rabbitConfig),
//	    rabbit.FXModule,
//	)
var FXModule = fx.Module("rabbit",
	fx.Provide(NewPublisherWithDI),
	fx.Invoke(RegisterPublisherLifecycle),
)

// PublisherParams groups the dependencies needed to create a Publisher.
type PublisherParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewPublisherWithDI creates a Publisher using dependency injection.
func NewPublisherWithDI(params PublisherParams) (*Publisher, error) {
	publisher, err := NewPublisher(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		publisher.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		publisher.WithObserver(params.Observer)
	}
	return publisher, nil
}

// RegisterPublisherLifecycle runs RetryConnection for the lifetime of the
// application and closes the publisher on stop.
func RegisterPublisherLifecycle(lc fx.Lifecycle, publisher *Publisher) {
	wg := &sync.WaitGroup{}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				publisher.RetryConnection()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			err := publisher.Close()
			wg.Wait()
			return err
		},
	})
}
