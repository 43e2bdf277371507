package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID     string     `json:"ownerId" gorm:"type:varchar(36);not null;index"`
	Name        string     `json:"name" gorm:"not null"`
	Cuisine     string     `json:"cuisine"`
	Address     string     `json:"address"`
	Description string     `json:"description"`
	IsOpen      bool       `json:"isOpen"`
	MenuItems   []MenuItem `json:"menuItems,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// MenuItem is owned by one restaurant and hard-deleted; orders keep their own
// name and price snapshot.
type MenuItem struct {
	ID           string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RestaurantID string          `json:"restaurantId" gorm:"type:varchar(36);not null;index"`
	Name         string          `json:"name" gorm:"not null"`
	Description  string          `json:"description,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Category     string          `json:"category,omitempty"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	IsAvailable  bool            `json:"isAvailable"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (m *MenuItem) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
