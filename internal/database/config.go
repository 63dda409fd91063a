package database

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	// Driver specifies the database driver (postgres, sqlite)
	Driver string

	// PostgreSQL-specific configuration
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// SQLite-specific configuration, ":memory:" for tests
	Path string

	// Connection retry, zero values fall back to the defaults below
	MaxRetries int
	RetryDelay time.Duration
}

const (
	defaultMaxRetries = 5
	defaultRetryDelay = time.Second
)

// String returns a string representation with sensitive data masked
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, Host: %s, Port: %s, User: %s, Password: [REDACTED], Name: %s, SSLMode: %s, Path: %s}",
		c.Driver, c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Path)
}

// NormalizedDriver lowercases the driver and maps aliases
func (c *DatabaseConfig) NormalizedDriver() string {
	switch d := strings.ToLower(c.Driver); d {
	case "postgresql":
		return "postgres"
	case "":
		return "sqlite"
	default:
		return d
	}
}

// DSN builds a Data Source Name string based on the driver
func (c *DatabaseConfig) DSN() string {
	switch c.NormalizedDriver() {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	case "sqlite":
		return c.Path
	default:
		return ""
	}
}

// retryDelays doubles the base delay on every attempt
func (c *DatabaseConfig) retryDelays() (int, []time.Duration) {
	retries := c.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	base := c.RetryDelay
	if base <= 0 {
		base = defaultRetryDelay
	}
	delays := make([]time.Duration, retries)
	for i := range delays {
		delays[i] = base << i
	}
	return retries, delays
}
