package users

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/Aleph-Alpha/schema-management/v1/codegen"
	"github.com/Aleph-Alpha/schema-management/v1/schema_registry"
)

// draft07 is declared in the reflected schema; it only uses draft-07 keywords.
const draft07 = "http://json-schema.org/draft-07/schema#"

// RequestSchema returns the JSON Schema of UserRequest, reflected from the
// struct definition.
func RequestSchema() (string, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	s := r.Reflect(&UserRequest{})
	s.Version = draft07
	s.Title = "User"
	s.Description = "Body accepted by POST /users and PUT /users/{id}."

	out, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode user schema: %w", err)
	}
	return string(out), nil
}

// Validator checks a request body against a JSON Schema.
type Validator interface {
	Validate(ctx context.Context, document []byte) (codegen.ValidationResult, error)
}

// StaticValidator validates against a fixed schema.
type StaticValidator struct {
	Schema string
}

// Validate implements Validator.
func (v StaticValidator) Validate(_ context.Context, document []byte) (codegen.ValidationResult, error) {
	return codegen.Validate(v.Schema, string(document)), nil
}

// RegistryValidator validates against the latest schema registered under
// Subject. The schema is fetched on first use and kept until Refresh.
type RegistryValidator struct {
	Registry schema_registry.Registry
	Subject  string

	mu     sync.Mutex
	schema string
}

// Validate implements Validator. A registry failure is returned as an error
// so the caller can decide whether to fail the request.
func (v *RegistryValidator) Validate(ctx context.Context, document []byte) (codegen.ValidationResult, error) {
	schema, err := v.current(ctx)
	if err != nil {
		return codegen.ValidationResult{}, err
	}
	return codegen.Validate(schema, string(document)), nil
}

// Refresh drops the cached schema so the next Validate fetches it again.
func (v *RegistryValidator) Refresh() {
	v.mu.Lock()
	v.schema = ""
	v.mu.Unlock()
}

func (v *RegistryValidator) current(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.schema != "" {
		return v.schema, nil
	}
	meta, err := v.Registry.GetLatestSchema(ctx, v.Subject)
	if err != nil {
		return "", fmt.Errorf("failed to load schema for %s: %w", v.Subject, err)
	}
	if meta.SchemaType != schema_registry.SchemaTypeJSON {
		return "", fmt.Errorf("subject %s holds a %s schema, expected JSON", v.Subject, meta.SchemaType)
	}
	v.schema = meta.Schema
	return v.schema, nil
}

// RegisterRequestSchema registers the reflected request schema under subject
// after checking compatibility. A subject with no prior version is accepted.
func RegisterRequestSchema(ctx context.Context, registry schema_registry.Registry, subject string) (int, error) {
	schema, err := RequestSchema()
	if err != nil {
		return 0, err
	}

	compat, err := registry.TestCompatibility(ctx, subject, schema)
	if err != nil {
		return 0, fmt.Errorf("compatibility check for %s failed: %w", subject, err)
	}
	if !compat.Allows() {
		return 0, fmt.Errorf("user schema is %s with %s", compat, subject)
	}

	return registry.RegisterSchema(ctx, subject, schema)
}
