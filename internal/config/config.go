package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logging.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	environment := GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(logrus.DebugLevel)
	case "production":
		log.SetLevel(logrus.ErrorLevel)
	default:
		// Default to info level for other environments
		log.SetLevel(logrus.InfoLevel)
	}
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Port          int      `json:"port"`
	Host          string   `json:"host"`
	PublicBaseURL string   `json:"public_base_url"`
	CORSOrigins   []string `json:"cors_origins"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_sslmode"`
	DBPath     string `json:"db_path"`
	SeedDemo   bool   `json:"seed_demo"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret     string `json:"jwt_secret"`
	SessionSecret string `json:"session_secret"`

	// Integrations
	UploadDir      string `json:"upload_dir"`
	MaxUploadBytes int    `json:"max_upload_bytes"`
	AMQPURL        string `json:"amqp_url"`
	AIEnrichURL    string `json:"ai_enrich_url"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %d, Host: %s, PublicBaseURL: %s, DBDriver: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBPath: %s, LogLevel: %s, JWTSecret: [REDACTED], SessionSecret: [REDACTED], UploadDir: %s, AMQPURL: %s, AIEnrichURL: %s}",
		c.Port, c.Host, c.PublicBaseURL, c.DBDriver, c.DBHost, c.DBName, c.DBUser, c.DBPath, c.LogLevel, c.UploadDir, maskURL(c.AMQPURL), c.AIEnrichURL)
}

// maskURL masks the password in a connection URL
func maskURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		// Replace password with [REDACTED]
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// It also validates the port, the database driver and the integration URLs
// Returns an error if any environment variable is invalid
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	driver := strings.ToLower(GetEnvWithDefault("DB_DRIVER", "sqlite"))
	switch driver {
	case "sqlite", "postgres", "postgresql":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", driver)
	}

	config := &Config{
		Port:           port,
		Host:           GetEnvWithDefault("APP_HOST", "localhost"),
		PublicBaseURL:  strings.TrimRight(GetEnvWithDefault("PUBLIC_BASE_URL", fmt.Sprintf("http://localhost:%d", port)), "/"),
		CORSOrigins:    splitList(GetEnvWithDefault("CORS_ORIGINS", "*")),
		DBDriver:       driver,
		DBHost:         GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:         GetEnvWithDefault("DB_PORT", "5432"),
		DBName:         GetEnvWithDefault("DB_NAME", "qrmenu"),
		DBUser:         GetEnvWithDefault("DB_USER", "qrmenu"),
		DBPassword:     GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:      GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBPath:         GetEnvWithDefault("DB_PATH", "qrmenu.sqlite"),
		SeedDemo:       GetEnvAsType("SEED_DEMO", true),
		LogLevel:       GetEnvWithDefault("LOG_LEVEL", ""),
		JWTSecret:      GetEnvWithDefault("JWT_SECRET", "secret"),
		SessionSecret:  GetEnvWithDefault("SESSION_SECRET", "session-secret"),
		UploadDir:      GetEnvWithDefault("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: GetEnvAsType("MAX_UPLOAD_BYTES", 5<<20),
		AMQPURL:        GetEnvWithDefault("AMQP_URL", ""),
		AIEnrichURL:    GetEnvWithDefault("AI_ENRICH_URL", ""),
	}

	for name, raw := range map[string]string{"AMQP_URL": config.AMQPURL, "AI_ENRICH_URL": config.AIEnrichURL} {
		if raw == "" {
			continue
		}
		if _, err := url.ParseRequestURI(raw); err != nil {
			return nil, fmt.Errorf("invalid %s format: %w", name, err)
		}
	}
	if config.MaxUploadBytes <= 0 {
		return nil, errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}
