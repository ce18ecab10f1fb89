package postgres

import (
	"context"

	"gorm.io/gorm"
)

// cloneWithTx returns a Postgres that shares p's configuration but runs every
// operation on tx.
func (p *Postgres) cloneWithTx(tx *gorm.DB) *Postgres {
	clone := &Postgres{
		cfg:             p.cfg,
		logger:          p.logger,
		shutdownSignal:  p.shutdownSignal,
		retryChanSignal: p.retryChanSignal,
	}
	clone.client.Store(tx)
	return clone
}

// Transaction runs fn inside a database transaction. The transaction is
// rolled back when fn returns an error and committed otherwise.
//
// Example:
//
//	err := pg.Transaction(ctx, func(tx *postgres.Postgres) error {
//	    if err := tx.Create(ctx, &user); err != nil {
//	        return err
//	    }
//	    return tx.Create(ctx, &audit)
//	})
func (p *Postgres) Transaction(ctx context.Context, fn func(tx *Postgres) error) error {
	return p.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(p.cloneWithTx(tx))
	})
}
