package service

import (
	"context"

	"food-delivery-orders/authz"
	"food-delivery-orders/models"
)

type NotificationService struct {
	notifications NotificationRepository
}

func NewNotificationService(notifications NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// List returns the recipient's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, actor authz.Actor, recipientID string, unreadOnly bool) ([]models.Notification, error) {
	if err := authz.Can(actor, authz.ActionReadNotifications, authz.Resource{RecipientID: recipientID}); err != nil {
		return nil, err
	}
	return s.notifications.ListForRecipient(ctx, recipientID, unreadOnly)
}

// MarkRead flags the notification as read. Marking it twice is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, actor authz.Actor, id string) (*models.Notification, error) {
	n, err := s.notifications.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionReadNotifications, authz.Resource{RecipientID: n.RecipientID}); err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return nil, err
	}
	n.IsRead = true
	return n, nil
}
