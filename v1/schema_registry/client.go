package schema_registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Aleph-Alpha/schema-management/v1/observability"
)

const (
	contentType = "application/vnd.schemaregistry.v1+json"

	// SchemaTypeJSON is the registry tag for JSON Schema documents.
	SchemaTypeJSON = "JSON"

	// SchemaTypeAvro is what the registry implies when schemaType is omitted.
	SchemaTypeAvro = "AVRO"
)

// Registry provides an interface for interacting with a Confluent Schema Registry.
// Every call is a single request/response round trip keyed by subject.
//
//go:generate mockgen -source=client.go -destination=mock_registry.go -package=schema_registry
type Registry interface {
	// RegisterSchema registers a JSON schema under subject and returns its global ID.
	RegisterSchema(ctx context.Context, subject, schema string) (int, error)

	// ListSubjects returns every subject known to the registry.
	ListSubjects(ctx context.Context) ([]string, error)

	// GetLatestSchema retrieves the latest version of a schema for a subject.
	GetLatestSchema(ctx context.Context, subject string) (*Metadata, error)

	// GetSchema retrieves one specific version of a subject.
	GetSchema(ctx context.Context, subject string, version int) (*Metadata, error)

	// GetVersions lists the versions registered under subject.
	GetVersions(ctx context.Context, subject string) ([]int, error)

	// GetSchemaByID retrieves a schema by its global ID.
	GetSchemaByID(ctx context.Context, id int) (string, error)

	// TestCompatibility tests schema against the latest version of subject.
	// A subject without versions yields NoPriorVersion, not an error.
	TestCompatibility(ctx context.Context, subject, schema string) (Compatibility, error)

	// GetCompatibilityLevel returns the compatibility rule applied to subject,
	// falling back to the global rule.
	GetCompatibilityLevel(ctx context.Context, subject string) (string, error)

	// Close releases pooled connections held by the client.
	Close() error
}

// Metadata contains metadata about a registered schema
type Metadata struct {
	ID            int    `json:"id"`
	Version       int    `json:"version"`
	Schema        string `json:"schema"`
	Subject       string `json:"subject"`
	SchemaType    string `json:"schemaType,omitempty"`
	Compatibility string `json:"compatibility,omitempty"`
}

// Client is the default implementation of Registry
// that communicates with Confluent Schema Registry over HTTP.
type Client struct {
	url        string
	httpClient *http.Client

	// Cache for schemas by ID
	schemaCache      map[int]string
	schemaCacheMutex sync.RWMutex

	// Cache for schema IDs by subject and schema
	idCache      map[string]int
	idCacheMutex sync.RWMutex

	// Authentication
	username string
	password string

	// observer provides optional observability hooks for tracking operations
	observer observability.Observer

	// logger provides optional context-aware logging capabilities
	logger Logger
}

// Config holds configuration for schema registry client
type Config struct {
	// URL is the schema registry endpoint (e.g., "http://localhost:8081")
	URL string `yaml:"url" env:"SCHEMA_REGISTRY_URL"`

	// Username for basic auth (optional)
	Username string `yaml:"username" env:"SCHEMA_REGISTRY_USER"`

	// Password for basic auth (optional)
	Password string `yaml:"password" env:"SCHEMA_REGISTRY_PASSWORD" json:"-"`

	// Timeout for HTTP requests
	Timeout time.Duration `yaml:"timeout" env:"SCHEMA_REGISTRY_TIMEOUT"`
}

// Logger is the subset of logger.Logger the client uses for diagnostics.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// NewClient creates a new schema registry client
// Returns the concrete *Client type.
func NewClient(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("schema registry URL is required")
	}
	if _, err := url.ParseRequestURI(config.URL); err != nil {
		return nil, fmt.Errorf("invalid schema registry URL %q: %w", config.URL, err)
	}

	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		url: strings.TrimRight(config.URL, "/"),
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		schemaCache: make(map[int]string),
		idCache:     make(map[string]int),
		username:    config.Username,
		password:    config.Password,
	}, nil
}

// WithLogger attaches a logger and returns the client for chaining.
func (c *Client) WithLogger(l Logger) *Client {
	c.logger = l
	return c
}

// URL returns the registry base URL the client talks to.
func (c *Client) URL() string {
	return c.url
}

// Close releases idle connections. The client must not be used afterwards.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// RegisterSchema registers a new JSON schema with the schema registry
func (c *Client) RegisterSchema(ctx context.Context, subject, schema string) (int, error) {
	start := time.Now()

	// Check cache first
	cacheKey := subject + ":" + schema
	c.idCacheMutex.RLock()
	if id, ok := c.idCache[cacheKey]; ok {
		c.idCacheMutex.RUnlock()
		c.observeOperation("register_schema", subject, strconv.Itoa(id), time.Since(start), nil, map[string]interface{}{
			"cache_hit": true,
		})
		return id, nil
	}
	c.idCacheMutex.RUnlock()

	payload := map[string]interface{}{
		"schema":     schema,
		"schemaType": SchemaTypeJSON,
	}

	var result struct {
		ID int `json:"id"`
	}
	status, err := c.do(ctx, http.MethodPost, "/subjects/"+url.PathEscape(subject)+"/versions", payload, &result)
	c.observeOperation("register_schema", subject, "", time.Since(start), err, map[string]interface{}{
		"status_code": status,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to register schema under %q: %w", subject, err)
	}

	// Cache the ID
	c.idCacheMutex.Lock()
	c.idCache[cacheKey] = result.ID
	c.idCacheMutex.Unlock()

	return result.ID, nil
}

// ListSubjects returns all registered subjects.
func (c *Client) ListSubjects(ctx context.Context) ([]string, error) {
	start := time.Now()

	var subjects []string
	_, err := c.do(ctx, http.MethodGet, "/subjects", nil, &subjects)
	c.observeOperation("list_subjects", "registry", "", time.Since(start), err, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	if subjects == nil {
		subjects = []string{}
	}
	return subjects, nil
}

// GetLatestSchema retrieves the latest version of a schema for a subject
func (c *Client) GetLatestSchema(ctx context.Context, subject string) (*Metadata, error) {
	return c.getVersion(ctx, "get_latest_schema", subject, "latest")
}

// GetSchema retrieves a specific version of a schema for a subject.
func (c *Client) GetSchema(ctx context.Context, subject string, version int) (*Metadata, error) {
	if version <= 0 {
		return nil, fmt.Errorf("invalid version %d: versions start at 1", version)
	}
	return c.getVersion(ctx, "get_schema", subject, strconv.Itoa(version))
}

func (c *Client) getVersion(ctx context.Context, operation, subject, version string) (*Metadata, error) {
	start := time.Now()

	var metadata Metadata
	_, err := c.do(ctx, http.MethodGet, "/subjects/"+url.PathEscape(subject)+"/versions/"+version, nil, &metadata)
	c.observeOperation(operation, subject, version, time.Since(start), err, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s version of %q: %w", version, subject, err)
	}

	metadata.Subject = subject
	if metadata.SchemaType == "" {
		metadata.SchemaType = SchemaTypeAvro
	}

	// Cache the schema
	c.schemaCacheMutex.Lock()
	c.schemaCache[metadata.ID] = metadata.Schema
	c.schemaCacheMutex.Unlock()

	return &metadata, nil
}

// GetVersions lists all versions registered under subject.
func (c *Client) GetVersions(ctx context.Context, subject string) ([]int, error) {
	start := time.Now()

	var versions []int
	_, err := c.do(ctx, http.MethodGet, "/subjects/"+url.PathEscape(subject)+"/versions", nil, &versions)
	c.observeOperation("get_versions", subject, "", time.Since(start), err, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions of %q: %w", subject, err)
	}
	return versions, nil
}

// GetSchemaByID retrieves a schema from the registry by its ID
func (c *Client) GetSchemaByID(ctx context.Context, id int) (string, error) {
	start := time.Now()

	// Check cache first
	c.schemaCacheMutex.RLock()
	if schema, ok := c.schemaCache[id]; ok {
		c.schemaCacheMutex.RUnlock()
		c.observeOperation("get_schema_by_id", "registry", strconv.Itoa(id), time.Since(start), nil, map[string]interface{}{
			"cache_hit": true,
		})
		return schema, nil
	}
	c.schemaCacheMutex.RUnlock()

	var result struct {
		Schema string `json:"schema"`
	}
	_, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/schemas/ids/%d", id), nil, &result)
	c.observeOperation("get_schema_by_id", "registry", strconv.Itoa(id), time.Since(start), err, map[string]interface{}{
		"cache_hit": false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch schema %d: %w", id, err)
	}

	c.schemaCacheMutex.Lock()
	c.schemaCache[id] = result.Schema
	c.schemaCacheMutex.Unlock()

	return result.Schema, nil
}

// TestCompatibility checks if a schema is compatible with the latest version registered under subject.
// When the subject (or its latest version) does not exist the result is NoPriorVersion with a nil error;
// every other failure is returned as an error so callers can tell "nothing to compare" from "could not ask".
func (c *Client) TestCompatibility(ctx context.Context, subject, schema string) (Compatibility, error) {
	start := time.Now()

	payload := map[string]interface{}{
		"schema":     schema,
		"schemaType": SchemaTypeJSON,
	}

	var result struct {
		IsCompatible bool `json:"is_compatible"`
	}
	_, err := c.do(ctx, http.MethodPost, "/compatibility/subjects/"+url.PathEscape(subject)+"/versions/latest", payload, &result)
	c.observeOperation("test_compatibility", subject, "latest", time.Since(start), err, nil)

	switch {
	case err == nil && result.IsCompatible:
		return Compatible, nil
	case err == nil:
		return Incompatible, nil
	case IsNotFound(err):
		c.debug(ctx, "no prior version registered, nothing to compare", map[string]interface{}{"subject": subject})
		return NoPriorVersion, nil
	default:
		return CompatibilityUnknown, fmt.Errorf("failed to test compatibility of %q: %w", subject, err)
	}
}

// GetCompatibilityLevel returns the compatibility level configured for subject.
// Subjects without an explicit level report the global level.
func (c *Client) GetCompatibilityLevel(ctx context.Context, subject string) (string, error) {
	start := time.Now()

	var result struct {
		CompatibilityLevel string `json:"compatibilityLevel"`
	}
	_, err := c.do(ctx, http.MethodGet, "/config/"+url.PathEscape(subject), nil, &result)
	if err != nil {
		var regErr *Error
		if errors.As(err, &regErr) && regErr.StatusCode == http.StatusNotFound {
			_, err = c.do(ctx, http.MethodGet, "/config", nil, &result)
		}
	}
	c.observeOperation("get_compatibility_level", subject, "", time.Since(start), err, nil)
	if err != nil {
		return "", fmt.Errorf("failed to fetch compatibility level of %q: %w", subject, err)
	}
	return result.CompatibilityLevel, nil
}

// do performs one registry round trip. A non-2xx answer becomes *Error,
// transport failures wrap ErrRegistryUnavailable. The HTTP status is
// returned for observation, or 0 when no response arrived.
func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", contentType)
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.warn(ctx, "schema registry request failed", err, map[string]interface{}{"method": method, "path": path})
		return 0, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: failed to decode response: %w", ErrRegistryUnavailable, err)
		}
	}
	return resp.StatusCode, nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	regErr := &Error{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(raw, regErr); err != nil || regErr.Message == "" {
		regErr.Message = strings.TrimSpace(string(raw))
	}
	if regErr.Message == "" {
		regErr.Message = http.StatusText(resp.StatusCode)
	}
	return regErr
}

func (c *Client) debug(ctx context.Context, msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.DebugWithContext(ctx, msg, nil, fields)
	}
}

func (c *Client) warn(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.WarnWithContext(ctx, msg, err, fields)
	}
}
