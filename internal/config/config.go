// Package config provides centralized configuration management for the
// importer. Settings load from environment variables with sensible
// defaults and are validated on startup to fail fast on misconfiguration.
// The import definitions themselves live in a YAML file named by
// IMPORTS_FILE.
package config

import "time"

// Config holds all importer configuration.
type Config struct {
	Database DatabaseConfig
	Mail     MailConfig
	Import   ImportConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds PostgreSQL connection settings. Definitions may
// target several databases on the same server; the URL's database path
// is swapped per target.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// Schema is the namespace destination tables live in (default: public)
	Schema string `env:"DB_SCHEMA" default:"public"`

	// MaxConns is the maximum number of connections per pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// MailConfig holds report delivery settings.
type MailConfig struct {
	// Host is the SMTP relay (required)
	Host string `env:"SMTP_HOST" required:"true"`

	// Port is the SMTP port (default: 25)
	Port int `env:"SMTP_PORT" default:"25"`

	// From is the sender address (required)
	From string `env:"MAIL_FROM" required:"true"`

	// To is the comma-separated recipient list (required)
	To []string `env:"MAIL_TO" required:"true"`

	// Username and Password enable SMTP AUTH when set
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
}

// ImportConfig holds run settings.
type ImportConfig struct {
	// DefinitionsFile is the YAML file listing import definitions (required)
	DefinitionsFile string `env:"IMPORTS_FILE" required:"true"`

	// MaxAge is the recency window for drop files (default: 24h)
	MaxAge time.Duration `env:"IMPORT_MAX_AGE" default:"24h"`

	// RunTimeout bounds the whole run; 0 disables the bound (default: 0)
	RunTimeout time.Duration `env:"IMPORT_RUN_TIMEOUT" default:"0s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}
