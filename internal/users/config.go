package users

// Store backends accepted by Config.Store.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config holds the user-api settings read from the environment.
type Config struct {
	// Address is the listen address of the HTTP API.
	Address string `yaml:"address" env:"USER_API_ADDRESS" envDefault:":8080"`

	// Store selects the backend: "memory" (seeded demo data) or "postgres".
	Store string `yaml:"store" env:"USER_STORE" envDefault:"memory"`

	// SchemaSubject, when set, validates request bodies against the latest
	// JSON schema registered under this subject instead of the built-in one.
	SchemaSubject string `yaml:"schema_subject" env:"USER_SCHEMA_SUBJECT"`

	// RegisterSchema registers the built-in request schema under
	// SchemaSubject on startup.
	RegisterSchema bool `yaml:"register_schema" env:"USER_SCHEMA_REGISTER"`

	// EventsTopic, when set together with KAFKA_BROKERS, publishes a change
	// event for every create, update and delete.
	EventsTopic string `yaml:"events_topic" env:"USER_EVENTS_TOPIC"`
}
