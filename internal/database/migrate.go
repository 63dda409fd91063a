package database

import (
	"fmt"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Models lists every persisted model in migration order
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Venue{},
		&models.Category{},
		&models.Item{},
		&models.Variant{},
		&models.Addon{},
		&models.Table{},
		&models.Slider{},
		&models.Order{},
		&models.OrderLine{},
		&models.WaiterCall{},
		&models.Review{},
		&models.OAuthClient{},
		&models.OAuthToken{},
	}
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("Database schema migrated")
	return nil
}

// SeedDemo creates a demo admin, owner and venue when the database has no venues
func SeedDemo(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Venue{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Database already seeded with initial data")
		return nil
	}

	log.Info("Database is empty, seeding initial data")
	return db.Transaction(func(tx *gorm.DB) error {
		admin := &models.User{Email: "admin@qrmenu.local", Name: "Admin", Password: "admin123", Role: models.RoleAdmin}
		owner := &models.User{Email: "owner@qrmenu.local", Name: "Demo Owner", Password: "owner123", Role: models.RoleOwner}
		for _, u := range []*models.User{admin, owner} {
			if err := u.HashPassword(); err != nil {
				return err
			}
			if err := tx.Create(u).Error; err != nil {
				return err
			}
		}

		venue := &models.Venue{Slug: "demo-bistro", Name: "Demo Bistro", OwnerID: owner.ID, Plan: models.PlanPremium, Currency: "USD", Active: true}
		if err := tx.Create(venue).Error; err != nil {
			return err
		}

		mains := &models.Category{VenueID: venue.ID, Name: "Mains", SortOrder: 1}
		drinks := &models.Category{VenueID: venue.ID, Name: "Drinks", SortOrder: 2}
		if err := tx.Create([]*models.Category{mains, drinks}).Error; err != nil {
			return err
		}

		items := []*models.Item{
			{
				VenueID: venue.ID, CategoryID: mains.ID, Name: "Classic Burger",
				Description: "Beef patty, cheddar, pickles", Price: decimal.NewFromInt(50),
				Tags:      datatypes.NewJSONSlice([]string{models.TagPopular}),
				Available: true, Featured: true,
				Variants: []models.Variant{{Name: "Double", Delta: decimal.NewFromInt(10)}},
				Addons: []models.Addon{
					{Name: "Bacon", Price: decimal.NewFromInt(5)},
					{Name: "Fried egg", Price: decimal.NewFromInt(3)},
				},
			},
			{
				VenueID: venue.ID, CategoryID: mains.ID, Name: "Falafel Wrap",
				Description: "Chickpea falafel, tahini", Price: decimal.RequireFromString("32.50"),
				Tags:      datatypes.NewJSONSlice([]string{models.TagVegan, models.TagNew}),
				Available: true,
			},
			{
				VenueID: venue.ID, CategoryID: drinks.ID, Name: "Lemonade",
				Price:        decimal.NewFromInt(12),
				Tags:         datatypes.NewJSONSlice([]string{}),
				Translations: datatypes.JSONMap{"tr": "Limonata", "de": "Limonade"},
				Available:    true,
			},
		}
		if err := tx.Create(items).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.Table{VenueID: venue.ID, Label: "T1", Token: "demo-table-1"}).Error; err != nil {
			return err
		}

		log.Info("Database seeded successfully")
		return nil
	})
}
