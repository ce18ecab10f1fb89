package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrateUp applies every pending migration found under dir in source.
// Files follow the golang-migrate naming scheme, e.g. 0001_create_users.up.sql.
// An already up-to-date database is not an error.
//
// Example:
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	err := pg.MigrateUp(migrations, "migrations")
func (p *Postgres) MigrateUp(source fs.FS, dir string) error {
	src, err := iofs.New(source, dir)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	sqlDB, err := p.DB().DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, p.cfg.Connection.DbName, driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	p.logger.Info("Database migrations applied", nil, map[string]interface{}{
		"version": version,
		"dirty":   dirty,
	})
	return nil
}
