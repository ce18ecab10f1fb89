package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/schema-management/v1/logger"
)

// FXModule provides *Postgres and runs its health monitoring for the lifetime
// of the application.
//
// Dependencies required by this module:
// - A postgres.Config instance
// - A logger.Logger instance
var FXModule = fx.Module("postgres",
	fx.Provide(NewPostgresClientWithDI),
	fx.Invoke(RegisterPostgresLifecycle),
)

// PostgresParams groups the dependencies for NewPostgresClientWithDI.
type PostgresParams struct {
	fx.In

	Config Config
	Logger logger.Logger
}

// NewPostgresClientWithDI is NewPostgres for fx.
func NewPostgresClientWithDI(params PostgresParams) (*Postgres, error) {
	return NewPostgres(params.Config, params.Logger)
}

// RegisterPostgresLifecycle starts MonitorConnection and RetryConnection on
// start and stops them, then closes the pool, on stop.
func RegisterPostgresLifecycle(lc fx.Lifecycle, pg *Postgres) {
	wg := &sync.WaitGroup{}
	// The hook context expires once start completes, so the loops get their own.
	loopCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				pg.MonitorConnection(loopCtx)
			}()
			go func() {
				defer wg.Done()
				pg.RetryConnection(loopCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			err := pg.GracefulShutdown()
			wg.Wait()
			return err
		},
	})
}
