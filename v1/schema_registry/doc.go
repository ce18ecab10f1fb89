// Package schema_registry provides a client for the Confluent Schema Registry
// REST API, specialized for JSON Schema subjects.
//
// Core Features:
//   - Schema registration and retrieval with caching
//   - Subject and version listing
//   - Compatibility testing that separates "no prior version" from failures
//   - Typed registry errors matchable with errors.Is
//   - Confluent wire format encoding/decoding
//
// Basic Usage:
//
//	import "github.com/Aleph-Alpha/schema-management/v1/schema_registry"
//
//	registry, err := schema_registry.NewClient(schema_registry.Config{
//	    URL:     "http://localhost:8081",
//	    Timeout: 10 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer registry.Close()
//
//	compat, err := registry.TestCompatibility(ctx, "order-events-value", schema)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !compat.Allows() {
//	    log.Fatal("schema is not compatible")
//	}
//
//	id, err := registry.RegisterSchema(ctx, "order-events-value", schema)
//
// Error handling:
//
//	_, err := registry.GetLatestSchema(ctx, "missing-value")
//	if schema_registry.IsNotFound(err) {
//	    // subject has never been registered
//	}
//	if errors.Is(err, schema_registry.ErrRegistryUnavailable) {
//	    // DNS, connection or timeout failure
//	}
//
// Wire format:
//
//	framed := schema_registry.Frame(id, payload)
//	id, payload, err := schema_registry.DecodeSchemaID(framed)
//
// Using with FX:
//
//	app := fx.New(
//	    schema_registry.FXModule,
//	    fx.Provide(func() schema_registry.Config {
//	        return schema_registry.Config{URL: os.Getenv("SCHEMA_REGISTRY_URL")}
//	    }),
//	)
//
// Thread Safety:
//
// The Client is safe for concurrent use. Its caches are guarded by RWMutexes.
package schema_registry
