package schemafile

import "errors"

var (
	// ErrFileNotFound is wrapped when a schema file does not exist.
	ErrFileNotFound = errors.New("schema file not found")

	// ErrInvalidConfig is wrapped when a config file cannot be decoded.
	ErrInvalidConfig = errors.New("invalid schema-management config")
)
