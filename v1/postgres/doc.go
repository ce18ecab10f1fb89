// Package postgres wraps GORM with the PostgreSQL driver.
//
// NewPostgres opens a pool, and the fx module keeps it healthy with a
// background ping loop that reconnects after failures. The helpers cover
// what the user store needs (Find, First, Create, UpdateWhere, Delete,
// Count, Transaction, MigrateUp); DB exposes the raw *gorm.DB for the rest.
//
// Errors are returned as GORM reports them. TranslateError maps them onto
// ErrRecordNotFound, ErrDuplicateKey, ErrForeignKey and ErrInvalidData, and
// IsRetryable classifies transient server conditions.
package postgres
