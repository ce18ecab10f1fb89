package postgres

import "time"

// Config defines the connection settings for PostgreSQL.
type Config struct {
	Connection        Connection        `yaml:"connection"`
	ConnectionDetails ConnectionDetails `yaml:"connection_details"`
}

// Connection holds the DSN parts.
type Connection struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD"` //nolint:gosec
	DbName   string `yaml:"db_name" env:"POSTGRES_DB" envDefault:"users"`
	SSLMode  string `yaml:"ssl_mode" env:"POSTGRES_SSL_MODE" envDefault:"disable"`
}

// ConnectionDetails tunes the connection pool. Zero values fall back to
// DefaultMaxOpenConns, DefaultMaxIdleConns and DefaultConnMaxLifetime.
type ConnectionDetails struct {
	MaxOpenConns    int           `yaml:"max_open_conns" env:"POSTGRES_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"POSTGRES_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"POSTGRES_CONN_MAX_LIFETIME"`
}

const (
	DefaultMaxOpenConns    = 50
	DefaultMaxIdleConns    = 25
	DefaultConnMaxLifetime = time.Minute

	healthCheckInterval = 10 * time.Second
	healthCheckTimeout  = 5 * time.Second
)

// DSN renders the connection as a libpq keyword/value string.
func (c Connection) DSN() string {
	return "host=" + c.Host +
		" port=" + c.Port +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DbName +
		" sslmode=" + c.SSLMode
}
