package services

import (
	"context"
	"testing"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/database"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/events"
	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// every pooled connection would get its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDemo(db))
	return db
}

func demoVenue(t *testing.T, db *gorm.DB) models.Venue {
	var venue models.Venue
	require.NoError(t, db.Where("slug = ?", "demo-bistro").First(&venue).Error)
	return venue
}

func itemByName(t *testing.T, db *gorm.DB, name string) models.Item {
	var item models.Item
	require.NoError(t, db.Preload("Variants").Preload("Addons").Where("name = ?", name).First(&item).Error)
	return item
}

type recordingPublisher struct {
	events chan events.Event
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(chan events.Event, 16)}
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events <- event
	return nil
}
