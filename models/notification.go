package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is written once per recipient on an order event; only IsRead
// ever changes.
type Notification struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipientID    string    `json:"recipientId" gorm:"type:varchar(36);not null;index:idx_notification_recipient"`
	RecipientRole  UserRole  `json:"recipientRole" gorm:"type:varchar(16);not null"`
	Message        string    `json:"message" gorm:"not null"`
	RelatedOrderID string    `json:"relatedOrderId" gorm:"type:varchar(36);index"`
	IsRead         bool      `json:"isRead" gorm:"not null;default:false;index:idx_notification_recipient"`
	CreatedAt      time.Time `json:"createdAt"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
