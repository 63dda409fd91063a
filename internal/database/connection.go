package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var log = logging.New()

// InitDatabase opens the configured database, retrying with exponential backoff,
// and configures the connection pool
func InitDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	driver := cfg.NormalizedDriver()

	log.WithFields(logrus.Fields{
		"db_driver": driver,
		"db_host":   cfg.Host,
		"db_name":   cfg.Name,
		"db_path":   cfg.Path,
	}).Info("Initializing database connection")

	if driver != "postgres" && driver != "sqlite" {
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite)", cfg.Driver)
	}

	maxRetries, retryDelays := cfg.retryDelays()

	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		var db *gorm.DB
		db, err = open(driver, cfg)
		if err == nil {
			var sqlDB *sql.DB
			sqlDB, err = db.DB()
			if err == nil {
				err = sqlDB.Ping()
			}
			if err == nil {
				configureConnectionPool(driver, sqlDB)
				log.WithFields(logrus.Fields{
					"db_driver": driver,
					"attempt":   attempt,
				}).Info("Database initialized successfully")
				return db, nil
			}
		}

		log.WithFields(logrus.Fields{
			"attempt":     attempt,
			"max_retries": maxRetries,
			"error":       err.Error(),
		}).Warn("Database connection attempt failed")

		// Don't wait after the last attempt
		if attempt < maxRetries {
			delay := retryDelays[attempt-1]
			log.WithField("delay", delay).Info("Retrying database connection")
			time.Sleep(delay)
		}
	}

	// All retries exhausted
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

func open(driver string, cfg DatabaseConfig) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		log.WithField("dsn_host", cfg.Host).Debug("Connecting to PostgreSQL")
		return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	case "sqlite":
		log.WithField("db_path", cfg.Path).Debug("Connecting to SQLite")
		return gorm.Open(sqlite.Open(cfg.DSN()), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s (supported: postgres, sqlite)", cfg.Driver)
	}
}

// configureConnectionPool sets up connection pool parameters.
// SQLite gets a single long-lived connection so ":memory:" databases are shared by every query.
func configureConnectionPool(driver string, sqlDB *sql.DB) {
	maxOpen, maxIdle, lifetime := 25, 5, 5*time.Minute
	if driver == "sqlite" {
		maxOpen, maxIdle, lifetime = 1, 1, 0
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxLifetime(lifetime)

	log.WithFields(logrus.Fields{
		"max_open_conns":    maxOpen,
		"max_idle_conns":    maxIdle,
		"conn_max_lifetime": lifetime.String(),
	}).Debug("Connection pool configured")
}
