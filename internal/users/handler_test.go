package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/schema-management/v1/logger"
	"github.com/Aleph-Alpha/schema-management/v1/metrics"
	"github.com/Aleph-Alpha/schema-management/v1/tracer"
)

type recordedMessage struct {
	key     string
	value   []byte
	headers map[string]string
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []recordedMessage
}

func (p *fakePublisher) Publish(_ context.Context, key, value []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, recordedMessage{key: string(key), value: value, headers: headers})
	return nil
}

func newTestServer(t *testing.T, validator Validator, notifier *Notifier, m metrics.MetricsCollector, tr *tracer.Tracer) (*echo.Echo, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(SeedUsers()...)
	h, err := NewHandler(store, validator, notifier, logger.NewNop())
	require.NoError(t, err)
	return NewServer(h, logger.NewNop(), m, tr), store
}

func serve(e *echo.Echo, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func staticValidator(t *testing.T) Validator {
	t.Helper()
	schema, err := RequestSchema()
	require.NoError(t, err)
	return StaticValidator{Schema: schema}
}

func TestHandlerRoutes(t *testing.T) {
	e, _ := newTestServer(t, staticValidator(t), nil, nil, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		headers    map[string]string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", "", nil, http.StatusOK},
		{"list", http.MethodGet, "/users", "", nil, http.StatusOK},
		{"get", http.MethodGet, "/users/1", "", nil, http.StatusOK},
		{"get unknown", http.MethodGet, "/users/99", "", nil, http.StatusNotFound},
		{"get malformed id", http.MethodGet, "/users/abc", "", nil, http.StatusBadRequest},
		{"get negative id", http.MethodGet, "/users/-1", "", nil, http.StatusBadRequest},
		{"create malformed body", http.MethodPost, "/users", "{", nil, http.StatusBadRequest},
		{"create missing email", http.MethodPost, "/users", `{"name":"Dana"}`, nil, http.StatusBadRequest},
		{"update unknown", http.MethodPut, "/users/99", `{"name":"X","email":"x@example.com"}`, nil, http.StatusNotFound},
		{"update bad If-Match", http.MethodPut, "/users/1", `{"name":"X","email":"x@example.com"}`, map[string]string{"If-Match": "abc"}, http.StatusBadRequest},
		{"delete unknown", http.MethodDelete, "/users/99", "", nil, http.StatusNotFound},
		{"schema", http.MethodGet, "/users/schema", "", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.path, tt.body, tt.headers)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestHandlerHealth(t *testing.T) {
	e, _ := newTestServer(t, nil, nil, nil, nil)

	rec := serve(e, http.MethodGet, "/health", "", nil)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "user-api", body["service"])
}

func TestHandlerList(t *testing.T) {
	e, _ := newTestServer(t, nil, nil, nil, nil)

	rec := serve(e, http.MethodGet, "/users", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	items := decode[[]User](t, rec)
	require.Len(t, items, 3)
	assert.Equal(t, "alice@example.com", items[0].Email)
	assert.Equal(t, "Developer", items[1].Role)
}

func TestHandlerCreate(t *testing.T) {
	e, store := newTestServer(t, staticValidator(t), nil, nil, nil)

	rec := serve(e, http.MethodPost, "/users", `{"name":"Dana Scully","email":"dana@example.com","role":"Agent"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/users/4", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, `"1"`, rec.Header().Get("ETag"))

	created := decode[User](t, rec)
	assert.Equal(t, User{ID: 4, Name: "Dana Scully", Email: "dana@example.com", Role: "Agent", Version: 1}, created)

	stored, err := store.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, created, stored)
}

func TestHandlerCreateValidation(t *testing.T) {
	e, store := newTestServer(t, staticValidator(t), nil, nil, nil)

	t.Run("schema violations are reported", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/users", `{"name":"Dana","extra":true}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decode[ErrorResponse](t, rec)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "request does not match schema", resp.Message)
		assert.Contains(t, resp.Errors, "[/] required: email")
	})

	t.Run("blank name fails the built-in check", func(t *testing.T) {
		rec := serve(e, http.MethodPost, "/users", `{"name":" ","email":"dana@example.com"}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[ErrorResponse](t, rec).Message, "name is required")
	})

	items, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestHandlerUpdate(t *testing.T) {
	body := `{"name":"Bob Smith","email":"bob@example.org","role":"Lead"}`

	t.Run("without If-Match", func(t *testing.T) {
		e, _ := newTestServer(t, nil, nil, nil, nil)
		rec := serve(e, http.MethodPut, "/users/2", body, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		u := decode[User](t, rec)
		assert.Equal(t, int64(2), u.Version)
		assert.Equal(t, "Lead", u.Role)
	})

	t.Run("matching If-Match", func(t *testing.T) {
		e, _ := newTestServer(t, nil, nil, nil, nil)
		rec := serve(e, http.MethodPut, "/users/2", body, map[string]string{"If-Match": `"1"`})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `"2"`, rec.Header().Get("ETag"))
	})

	t.Run("stale If-Match conflicts", func(t *testing.T) {
		e, store := newTestServer(t, nil, nil, nil, nil)
		rec := serve(e, http.MethodPut, "/users/2", body, map[string]string{"If-Match": `W/"7"`})
		require.Equal(t, http.StatusConflict, rec.Code)

		u, err := store.Get(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, "bob@example.com", u.Email)
		assert.Equal(t, int64(1), u.Version)
	})
}

func TestHandlerDelete(t *testing.T) {
	e, _ := newTestServer(t, nil, nil, nil, nil)

	rec := serve(e, http.MethodDelete, "/users/3", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(e, http.MethodGet, "/users/3", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerSchema(t *testing.T) {
	e, _ := newTestServer(t, nil, nil, nil, nil)

	rec := serve(e, http.MethodGet, "/users/schema", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	schema := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "User", schema["title"])
	assert.ElementsMatch(t, []interface{}{"name", "email"}, schema["required"])
	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "role")
}

func TestHandlerEvents(t *testing.T) {
	tr, err := tracer.NewClient(tracer.Config{ServiceName: "user-api-test"}, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tr.Shutdown(context.Background()) })

	publisher := &fakePublisher{}
	notifier := NewNotifier(publisher, tr.GetCarrier, logger.NewNop())
	e, _ := newTestServer(t, nil, notifier, nil, tr)

	require.Equal(t, http.StatusCreated, serve(e, http.MethodPost, "/users", `{"name":"Eve","email":"eve@example.com"}`, nil).Code)
	require.Equal(t, http.StatusOK, serve(e, http.MethodPut, "/users/4", `{"name":"Eve","email":"eve@example.org"}`, nil).Code)
	require.Equal(t, http.StatusNoContent, serve(e, http.MethodDelete, "/users/4", "", nil).Code)
	require.Equal(t, http.StatusNotFound, serve(e, http.MethodDelete, "/users/4", "", nil).Code)

	require.Len(t, publisher.messages, 3)

	var types []string
	for _, msg := range publisher.messages {
		assert.Equal(t, "4", msg.key)
		assert.Contains(t, msg.headers, "traceparent")

		var event Event
		require.NoError(t, json.Unmarshal(msg.value, &event))
		assert.Equal(t, int64(4), event.User.ID)
		assert.Equal(t, event.Type, msg.headers["event-type"])
		assert.False(t, event.OccurredAt.IsZero())
		types = append(types, event.Type)
	}
	assert.Equal(t, []string{EventCreated, EventUpdated, EventDeleted}, types)
}

func TestHandlerMetrics(t *testing.T) {
	m := metrics.NewMetrics(metrics.Config{ServiceName: "user-api"})
	e, _ := newTestServer(t, nil, nil, m, nil)

	serve(e, http.MethodGet, "/users/1", "", nil)
	serve(e, http.MethodGet, "/users/42", "", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `requests_total{method="GET",route="/users/:id",service="user-api",status="200"} 1`)
	assert.Contains(t, body, `requests_total{method="GET",route="/users/:id",service="user-api",status="404"} 1`)
}
