package users

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Aleph-Alpha/schema-management/v1/postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore is a Store backed by the users table. Updates are
// compare-and-swap statements on (id, version).
type PostgresStore struct {
	db *postgres.Postgres
}

// NewPostgresStore applies the embedded migrations and returns the store.
func NewPostgresStore(db *postgres.Postgres) (*PostgresStore, error) {
	if err := db.MigrateUp(migrations, "migrations"); err != nil {
		return nil, fmt.Errorf("failed to migrate users table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]User, error) {
	var items []User
	if err := s.db.DB().WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", postgres.TranslateError(err))
	}
	return items, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (User, error) {
	var u User
	if err := s.db.First(ctx, &u, id); err != nil {
		return User{}, s.translate(err)
	}
	return u, nil
}

func (s *PostgresStore) Create(ctx context.Context, u User) (User, error) {
	u.ID = 0
	u.Version = 1
	if err := s.db.Create(ctx, &u); err != nil {
		return User{}, fmt.Errorf("failed to create user: %w", postgres.TranslateError(err))
	}
	return u, nil
}

func (s *PostgresStore) Update(ctx context.Context, u User, expectedVersion *int64) (User, error) {
	var updated User
	err := s.db.Transaction(ctx, func(tx *postgres.Postgres) error {
		attrs := map[string]interface{}{
			"name":    u.Name,
			"email":   u.Email,
			"role":    u.Role,
			"version": gorm.Expr("version + 1"),
		}

		var rows int64
		var err error
		if expectedVersion != nil {
			rows, err = tx.UpdateWhere(ctx, &User{}, attrs, "id = ? AND version = ?", u.ID, *expectedVersion)
		} else {
			rows, err = tx.UpdateWhere(ctx, &User{}, attrs, "id = ?", u.ID)
		}
		if err != nil {
			return postgres.TranslateError(err)
		}

		if rows == 0 {
			var count int64
			if err := tx.Count(ctx, &User{}, &count, "id = ?", u.ID); err != nil {
				return postgres.TranslateError(err)
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrVersionConflict
		}

		return tx.First(ctx, &updated, u.ID)
	})
	if err != nil {
		return User{}, s.translate(err)
	}
	return updated, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	rows, err := s.db.Delete(ctx, &User{}, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", postgres.TranslateError(err))
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) translate(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionConflict) {
		return err
	}
	if errors.Is(postgres.TranslateError(err), postgres.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
