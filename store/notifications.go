package store

import (
	"context"

	"food-delivery-orders/models"

	"gorm.io/gorm"
)

type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) Create(ctx context.Context, n *models.Notification) error {
	return classify("create notification", s.db.WithContext(ctx).Create(n).Error)
}

func (s *NotificationStore) Get(ctx context.Context, id string) (*models.Notification, error) {
	var n models.Notification
	if err := s.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, notFound("notification", id, err)
	}
	return &n, nil
}

// ListForRecipient returns the recipient's notifications, newest first.
func (s *NotificationStore) ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	q := s.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.Order("created_at DESC").Find(&out).Error
	return out, classify("list notifications", err)
}

// ListForOrder returns every notification raised for the order, oldest first.
func (s *NotificationStore) ListForOrder(ctx context.Context, orderID string) ([]models.Notification, error) {
	var out []models.Notification
	err := s.db.WithContext(ctx).
		Where("related_order_id = ?", orderID).
		Order("created_at ASC").
		Find(&out).Error
	return out, classify("list order notifications", err)
}

func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("is_read", true).Error
	return classify("mark notification read", err)
}
