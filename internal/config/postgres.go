package config

import (
	"fmt"
	"strings"
)

// PostgresConfig holds the connection settings for the film catalog database
type PostgresConfig struct {
	User     string
	Password string
	Database string
	Host     string
	Port     string
	SSLMode  string
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	config := &PostgresConfig{
		User:     getenv("POSTGRES_USER"),
		Password: getenv("POSTGRES_PASSWORD"),
		Database: getenv("POSTGRES_DB"),
		Host:     getenv("POSTGRES_HOSTNAME"),
		Port:     getenv("POSTGRES_PORT"),
		SSLMode:  getenv("POSTGRES_SSLMODE"),
	}

	// Validate required fields
	if config.User == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if config.Database == "" {
		return nil, fmt.Errorf("POSTGRES_DB is required")
	}
	if config.Host == "" {
		return nil, fmt.Errorf("POSTGRES_HOSTNAME is required")
	}
	if config.Port == "" {
		config.Port = "5432"
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config, nil
}

// LoadOptionalPostgresConfig returns nil without error when no catalog
// database is configured at all, so callers can fall back to built-in titles.
func LoadOptionalPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	if getenv("POSTGRES_HOSTNAME") == "" && getenv("POSTGRES_DB") == "" && getenv("POSTGRES_USER") == "" {
		return nil, nil
	}
	return LoadPostgresConfig(getenv)
}

// ConnectionString returns a PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password='%s' dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, escapeConnValue(c.Password), c.Database, c.SSLMode)
}

func escapeConnValue(v string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v)
}
