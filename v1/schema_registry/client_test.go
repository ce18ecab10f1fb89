package schema_registry

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

const orderSchema = `{"type":"object","title":"OrderEvent","properties":{"id":{"type":"string"}},"required":["id"]}`

func writeRegistryError(w http.ResponseWriter, status, code int, message string) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error_code": code,
		"message":    message,
	})
}

func newMockRegistry(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	registrations := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/subjects/order-events-value/versions":
			registrations++
			body, _ := io.ReadAll(r.Body)
			var req map[string]string
			_ = json.Unmarshal(body, &req)
			assert.Equal(t, SchemaTypeJSON, req["schemaType"])
			assert.Equal(t, orderSchema, req["schema"])
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"id": 7})

		case r.Method == http.MethodGet && r.URL.Path == "/subjects":
			_ = json.NewEncoder(w).Encode([]string{"order-events-value", "users-value"})

		case r.URL.Path == "/subjects/order-events-value/versions/latest":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"subject":    "order-events-value",
				"id":         7,
				"version":    3,
				"schema":     orderSchema,
				"schemaType": "JSON",
			})

		case r.URL.Path == "/subjects/legacy-value/versions/1":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"id":      2,
				"version": 1,
				"schema":  `"string"`,
			})

		case r.URL.Path == "/subjects/order-events-value/versions":
			_ = json.NewEncoder(w).Encode([]int{1, 2, 3})

		case r.URL.Path == "/schemas/ids/7":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"schema": orderSchema})

		case r.URL.Path == "/compatibility/subjects/order-events-value/versions/latest":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"is_compatible": true})

		case r.URL.Path == "/compatibility/subjects/breaking-value/versions/latest":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"is_compatible": false})

		case r.URL.Path == "/compatibility/subjects/broken-value/versions/latest":
			writeRegistryError(w, http.StatusInternalServerError, ErrorCodeBackendDataStoreFailure, "store down")

		case r.URL.Path == "/config/order-events-value":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"compatibilityLevel": "FULL"})

		case r.URL.Path == "/config":
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"compatibilityLevel": "BACKWARD"})

		case r.URL.Path == "/compatibility/subjects/new-value/versions/latest",
			r.URL.Path == "/subjects/new-value/versions/latest":
			writeRegistryError(w, http.StatusNotFound, ErrorCodeSubjectNotFound, "Subject 'new-value' not found.")

		case r.URL.Path == "/subjects/order-events-value/versions/99":
			writeRegistryError(w, http.StatusNotFound, ErrorCodeVersionNotFound, "Version 99 not found.")

		case r.URL.Path == "/config/new-value":
			writeRegistryError(w, http.StatusNotFound, ErrorCodeSubjectCompatNotFound, "Subject 'new-value' does not have subject-level compatibility configured")

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server, &registrations
}

func TestClient(t *testing.T) {
	server, registrations := newMockRegistry(t)
	ctx := context.Background()

	registry, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)
	defer func() { _ = registry.Close() }()

	t.Run("register schema", func(t *testing.T) {
		id, err := registry.RegisterSchema(ctx, "order-events-value", orderSchema)
		require.NoError(t, err)
		assert.Equal(t, 7, id)

		// Test cache - second registration should return cached ID
		id2, err := registry.RegisterSchema(ctx, "order-events-value", orderSchema)
		require.NoError(t, err)
		assert.Equal(t, id, id2)
		assert.Equal(t, 1, *registrations)
	})

	t.Run("list subjects", func(t *testing.T) {
		subjects, err := registry.ListSubjects(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"order-events-value", "users-value"}, subjects)
	})

	t.Run("get latest schema", func(t *testing.T) {
		metadata, err := registry.GetLatestSchema(ctx, "order-events-value")
		require.NoError(t, err)
		assert.Equal(t, 7, metadata.ID)
		assert.Equal(t, 3, metadata.Version)
		assert.Equal(t, orderSchema, metadata.Schema)
		assert.Equal(t, "order-events-value", metadata.Subject)
		assert.Equal(t, SchemaTypeJSON, metadata.SchemaType)
	})

	t.Run("missing schema type defaults to avro", func(t *testing.T) {
		metadata, err := registry.GetSchema(ctx, "legacy-value", 1)
		require.NoError(t, err)
		assert.Equal(t, SchemaTypeAvro, metadata.SchemaType)
		assert.Equal(t, "legacy-value", metadata.Subject)
	})

	t.Run("get versions", func(t *testing.T) {
		versions, err := registry.GetVersions(ctx, "order-events-value")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, versions)
	})

	t.Run("get schema by id", func(t *testing.T) {
		schema, err := registry.GetSchemaByID(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, orderSchema, schema)
	})

	t.Run("compatibility level", func(t *testing.T) {
		level, err := registry.GetCompatibilityLevel(ctx, "order-events-value")
		require.NoError(t, err)
		assert.Equal(t, "FULL", level)

		level, err = registry.GetCompatibilityLevel(ctx, "new-value")
		require.NoError(t, err)
		assert.Equal(t, "BACKWARD", level)
	})
}

func TestTestCompatibility(t *testing.T) {
	server, _ := newMockRegistry(t)
	ctx := context.Background()

	registry, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	tests := []struct {
		name    string
		subject string
		want    Compatibility
		wantErr bool
	}{
		{name: "compatible", subject: "order-events-value", want: Compatible},
		{name: "incompatible", subject: "breaking-value", want: Incompatible},
		{name: "no prior version", subject: "new-value", want: NoPriorVersion},
		{name: "registry failure", subject: "broken-value", want: CompatibilityUnknown, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.TestCompatibility(ctx, tt.subject, orderSchema)
			if tt.wantErr {
				require.Error(t, err)
				assert.False(t, IsNotFound(err))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistryErrors(t *testing.T) {
	server, _ := newMockRegistry(t)
	ctx := context.Background()

	registry, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	t.Run("subject not found", func(t *testing.T) {
		_, err := registry.GetLatestSchema(ctx, "new-value")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSubjectNotFound))
		assert.True(t, IsNotFound(err))

		var regErr *Error
		require.True(t, errors.As(err, &regErr))
		assert.Equal(t, http.StatusNotFound, regErr.StatusCode)
		assert.Equal(t, ErrorCodeSubjectNotFound, regErr.ErrorCode)
	})

	t.Run("version not found", func(t *testing.T) {
		_, err := registry.GetSchema(ctx, "order-events-value", 99)
		assert.True(t, errors.Is(err, ErrVersionNotFound))
	})

	t.Run("invalid version", func(t *testing.T) {
		_, err := registry.GetSchema(ctx, "order-events-value", 0)
		assert.Error(t, err)
	})

	t.Run("unreachable registry", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		deadURL := dead.URL
		dead.Close()

		client, err := NewClient(Config{URL: deadURL})
		require.NoError(t, err)

		_, err = client.ListSubjects(ctx)
		require.Error(t, err)
		assert.True(t, IsUnavailable(err))
		assert.False(t, IsNotFound(err))

		compat, err := client.TestCompatibility(ctx, "order-events-value", orderSchema)
		assert.True(t, IsUnavailable(err))
		assert.Equal(t, CompatibilityUnknown, compat)
	})
}

func TestBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "user" || pass != "pass" {
			writeRegistryError(w, http.StatusUnauthorized, 40101, "Unauthorized")
			return
		}
		_ = json.NewEncoder(w).Encode([]string{})
	}))
	defer server.Close()

	registry, err := NewClient(Config{URL: server.URL, Username: "user", Password: "pass"})
	require.NoError(t, err)

	subjects, err := registry.ListSubjects(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subjects)

	anonymous, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	_, err = anonymous.ListSubjects(context.Background())
	var regErr *Error
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, http.StatusUnauthorized, regErr.StatusCode)
}

func TestObserver(t *testing.T) {
	server, _ := newMockRegistry(t)

	var mu sync.Mutex
	var ops []observability.OperationContext
	observer := observability.ObserverFunc(func(op observability.OperationContext) {
		mu.Lock()
		defer mu.Unlock()
		ops = append(ops, op)
	})

	registry, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)
	registry.WithObserver(observer)

	_, err = registry.GetSchemaByID(context.Background(), 7)
	require.NoError(t, err)
	_, err = registry.GetSchemaByID(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, ops, 2)
	assert.Equal(t, "schema_registry", ops[0].Component)
	assert.Equal(t, "get_schema_by_id", ops[0].Operation)
	assert.Equal(t, "7", ops[0].SubResource)
	assert.Equal(t, false, ops[0].Metadata["cache_hit"])
	assert.Equal(t, true, ops[1].Metadata["cache_hit"])
}

func TestConfig(t *testing.T) {
	t.Run("missing url", func(t *testing.T) {
		_, err := NewClient(Config{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "URL is required")
	})

	t.Run("malformed url", func(t *testing.T) {
		_, err := NewClient(Config{URL: "not a url"})
		assert.Error(t, err)
	})

	t.Run("trailing slash trimmed", func(t *testing.T) {
		registry, err := NewClient(Config{URL: "http://localhost:8081/"})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8081", registry.URL())
	})
}

func TestEncodeDecodeSchemaID(t *testing.T) {
	t.Run("frame and decode", func(t *testing.T) {
		framed := Frame(456, []byte("hello world"))
		assert.Len(t, framed, 5+len("hello world"))

		id, payload, err := DecodeSchemaID(framed)
		require.NoError(t, err)
		assert.Equal(t, 456, id)
		assert.Equal(t, []byte("hello world"), payload)
	})

	t.Run("decode invalid magic byte", func(t *testing.T) {
		_, _, err := DecodeSchemaID([]byte{0x1, 0x0, 0x0, 0x0, 0x1})
		assert.ErrorContains(t, err, "invalid magic byte")
	})

	t.Run("decode too short data", func(t *testing.T) {
		_, _, err := DecodeSchemaID([]byte{0x0, 0x0, 0x0})
		assert.ErrorContains(t, err, "data too short")
	})
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "order-events-value", TopicValueSubject("order-events"))
	assert.Equal(t, "order-events-key", TopicKeySubject("order-events"))
	assert.True(t, Compatible.Allows())
	assert.True(t, NoPriorVersion.Allows())
	assert.False(t, Incompatible.Allows())
	assert.Equal(t, "no prior version", NoPriorVersion.String())
}
