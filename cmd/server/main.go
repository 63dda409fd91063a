package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/franciscosanchezn/gin-qrmenu-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/auth"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/config"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/database"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/events"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/server"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const tokenPurgeInterval = time.Hour

// @title QR Menu API
// @version 1.0
// @description Multi-tenant restaurant QR menu: public menus, carts, orders, waiter calls and reviews
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()
	applyLogLevel(configuration.LogLevel)

	// Initialize database connection
	db := setupDatabase(configuration)

	// Optional event broker
	var publisher events.Publisher
	if configuration.AMQPURL != "" {
		rabbit, err := events.ConnectRabbitMQ(configuration.AMQPURL)
		checkPanicErr(err)
		defer rabbit.Close()
		publisher = rabbit
	}

	srv := server.New(configuration, db, publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go purgeExpiredTokens(ctx, db)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%v:%d", configuration.Host, configuration.Port),
		Handler:           srv.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Starting server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// applyLogLevel overrides the environment based level of every package logger when LOG_LEVEL is set
func applyLogLevel(level string) {
	if level == "" {
		return
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warn("Ignoring invalid LOG_LEVEL")
		return
	}
	log.SetLevel(parsed)
	logging.SetLevel(parsed)
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %s", conf)
	return conf
}

// setupDatabase connects, migrates and optionally seeds the demo venue
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.DatabaseConfig{
		Driver:   conf.DBDriver,
		Host:     conf.DBHost,
		Port:     conf.DBPort,
		User:     conf.DBUser,
		Password: conf.DBPassword,
		Name:     conf.DBName,
		SSLMode:  conf.DBSSLMode,
		Path:     conf.DBPath,
	})
	checkPanicErr(err)

	checkPanicErr(database.Migrate(db))
	if conf.SeedDemo {
		checkPanicErr(database.SeedDemo(db))
	}
	return db
}

// purgeExpiredTokens removes expired OAuth2 access tokens until ctx is done
func purgeExpiredTokens(ctx context.Context, db *gorm.DB) {
	store := auth.NewGormTokenStore(db)
	ticker := time.NewTicker(tokenPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.PurgeExpired(ctx)
			if err != nil {
				log.WithError(err).Warn("Failed to purge expired tokens")
				continue
			}
			if removed > 0 {
				log.WithField("removed", removed).Info("Purged expired tokens")
			}
		}
	}
}
