package postgres

import (
	"context"

	"gorm.io/gorm"
)

// DB returns the current GORM client for cases the helpers below do not cover.
func (p *Postgres) DB() *gorm.DB {
	return p.client.Load()
}

// Find retrieves all records matching conditions into dest.
func (p *Postgres) Find(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return p.DB().WithContext(ctx).Find(dest, conditions...).Error
}

// First retrieves the first record matching conditions into dest.
// A miss returns an error that TranslateError maps to ErrRecordNotFound.
func (p *Postgres) First(ctx context.Context, dest interface{}, conditions ...interface{}) error {
	return p.DB().WithContext(ctx).First(dest, conditions...).Error
}

// Create inserts value.
func (p *Postgres) Create(ctx context.Context, value interface{}) error {
	return p.DB().WithContext(ctx).Create(value).Error
}

// UpdateWhere applies attrs to rows of model matching condition and returns
// the number of rows affected. It is the building block for compare-and-swap
// updates such as "id = ? AND version = ?".
func (p *Postgres) UpdateWhere(ctx context.Context, model interface{}, attrs interface{}, condition string, args ...interface{}) (int64, error) {
	result := p.DB().WithContext(ctx).Model(model).Where(condition, args...).Updates(attrs)
	return result.RowsAffected, result.Error
}

// Delete removes records of value's type matching conditions and returns the
// number of rows affected.
func (p *Postgres) Delete(ctx context.Context, value interface{}, conditions ...interface{}) (int64, error) {
	result := p.DB().WithContext(ctx).Delete(value, conditions...)
	return result.RowsAffected, result.Error
}

// Count counts records of model matching the optional condition.
func (p *Postgres) Count(ctx context.Context, model interface{}, count *int64, conditions ...interface{}) error {
	db := p.DB().WithContext(ctx).Model(model)
	if len(conditions) > 0 {
		db = db.Where(conditions[0], conditions[1:]...)
	}
	return db.Count(count).Error
}
