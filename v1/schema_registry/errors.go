package schema_registry

import (
	"errors"
	"fmt"
)

// Confluent Schema Registry error codes this package distinguishes.
const (
	ErrorCodeSubjectNotFound          = 40401
	ErrorCodeVersionNotFound          = 40402
	ErrorCodeSchemaNotFound           = 40403
	ErrorCodeSubjectCompatNotFound    = 40408
	ErrorCodeIncompatibleSchema       = 409
	ErrorCodeInvalidSchema            = 42201
	ErrorCodeInvalidVersion           = 42202
	ErrorCodeBackendDataStoreFailure  = 50001
	ErrorCodeOperationTimeout         = 50002
	ErrorCodeForwardingRequestFailure = 50003
)

var (
	// ErrRegistryUnavailable wraps transport-level failures: DNS, refused
	// connections, timeouts, undecodable responses.
	ErrRegistryUnavailable = errors.New("schema registry unavailable")

	// ErrSubjectNotFound is matched by *Error values carrying code 40401.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrVersionNotFound is matched by *Error values carrying code 40402.
	ErrVersionNotFound = errors.New("version not found")

	// ErrSchemaNotFound is matched by *Error values carrying code 40403.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrIncompatibleSchema is matched when the registry rejects a
	// registration because it breaks the configured compatibility rule.
	ErrIncompatibleSchema = errors.New("incompatible schema")

	// ErrInvalidSchema is matched by *Error values carrying code 42201.
	ErrInvalidSchema = errors.New("invalid schema")
)

// Error is a non-2xx answer from the registry. The registry encodes
// failures as {"error_code": 40401, "message": "..."}.
type Error struct {
	StatusCode int    `json:"-"`
	ErrorCode  int    `json:"error_code"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	if e.ErrorCode != 0 {
		return fmt.Sprintf("schema registry returned status %d (error code %d): %s", e.StatusCode, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("schema registry returned status %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match the package sentinels against registry error codes.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrSubjectNotFound:
		return e.ErrorCode == ErrorCodeSubjectNotFound
	case ErrVersionNotFound:
		return e.ErrorCode == ErrorCodeVersionNotFound
	case ErrSchemaNotFound:
		return e.ErrorCode == ErrorCodeSchemaNotFound
	case ErrIncompatibleSchema:
		return e.ErrorCode == ErrorCodeIncompatibleSchema || e.StatusCode == 409
	case ErrInvalidSchema:
		return e.ErrorCode == ErrorCodeInvalidSchema
	}
	return false
}

// IsNotFound reports whether err means the subject or version does not
// exist in the registry.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSubjectNotFound) || errors.Is(err, ErrVersionNotFound)
}

// IsUnavailable reports whether err is a transport-level failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrRegistryUnavailable)
}
