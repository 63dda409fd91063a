package database

import (
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	pg := DatabaseConfig{Driver: "PostgreSQL", Host: "db", Port: "5432", User: "u", Password: "p", Name: "menu", SSLMode: "disable"}
	assert.Equal(t, "postgres", pg.NormalizedDriver())
	assert.Equal(t, "host=db user=u password=p dbname=menu port=5432 sslmode=disable", pg.DSN())

	lite := DatabaseConfig{Path: "menu.sqlite"}
	assert.Equal(t, "sqlite", lite.NormalizedDriver())
	assert.Equal(t, "menu.sqlite", lite.DSN())

	assert.NotContains(t, pg.String(), "password=p")
}

func TestRetryDelaysDouble(t *testing.T) {
	cfg := DatabaseConfig{MaxRetries: 3, RetryDelay: 10 * time.Millisecond}
	retries, delays := cfg.retryDelays()
	assert.Equal(t, 3, retries)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 40 * time.Millisecond}, delays)

	retries, delays = (&DatabaseConfig{}).retryDelays()
	assert.Equal(t, 5, retries)
	assert.Equal(t, 16*time.Second, delays[4])
}

func TestInitDatabaseRejectsUnknownDriver(t *testing.T) {
	_, err := InitDatabase(DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestMigrateAndSeed(t *testing.T) {
	db, err := InitDatabase(DatabaseConfig{Driver: "sqlite", Path: ":memory:", MaxRetries: 1})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, SeedDemo(db))
	// Seeding twice is a no-op
	require.NoError(t, SeedDemo(db))

	var venues int64
	db.Model(&models.Venue{}).Count(&venues)
	assert.Equal(t, int64(1), venues)

	var burger models.Item
	require.NoError(t, db.Preload("Variants").Preload("Addons").Where("name = ?", "Classic Burger").First(&burger).Error)
	assert.Len(t, burger.Variants, 1)
	assert.Len(t, burger.Addons, 2)
	assert.Equal(t, []string{models.TagPopular}, []string(burger.Tags))

	var owner models.User
	require.NoError(t, db.Where("email = ?", "owner@qrmenu.local").First(&owner).Error)
	assert.True(t, owner.CheckPassword("owner123"))
}
