// Package testutil sets up an in-memory store and seed records for tests.
package testutil

import (
	"testing"

	"food-delivery-orders/config"
	"food-delivery-orders/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SetupTestDB opens a private in-memory SQLite database with every table
// migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDB(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func SeedUser(t *testing.T, db *gorm.DB, role models.UserRole, name string) *models.User {
	t.Helper()

	u := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}
	return u
}

func SeedRestaurant(t *testing.T, db *gorm.DB, ownerID, name string) *models.Restaurant {
	t.Helper()

	r := &models.Restaurant{OwnerID: ownerID, Name: name, Address: "1 Main St", IsOpen: true}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("failed to seed restaurant %s: %v", name, err)
	}
	return r
}

func SeedMenuItem(t *testing.T, db *gorm.DB, restaurantID, name, price string) *models.MenuItem {
	t.Helper()

	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		IsAvailable:  true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to seed menu item %s: %v", name, err)
	}
	return item
}
