// Package notify persists the notifications raised by order events. There is
// no push channel: recipients poll for unread notifications.
package notify

import (
	"context"
	"fmt"
	"time"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/models"

	"go.uber.org/zap"
)

// Store is the persistence the emitter writes through.
type Store interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Failure describes one notification that could not be written. It is
// reported back to the caller of a transition, never retried.
type Failure struct {
	RecipientID   string          `json:"recipientId"`
	RecipientRole models.UserRole `json:"recipientRole"`
	Error         string          `json:"error"`
}

type Emitter struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
}

func NewEmitter(store Store, log *zap.Logger) *Emitter {
	return &Emitter{store: store, log: log, now: time.Now}
}

// WithClock replaces the emitter's time source.
func (e *Emitter) WithClock(now func() time.Time) *Emitter {
	e.now = now
	return e
}

// Emit writes a single notification. A write failure comes back as a
// NotificationDeliveryFailure.
func (e *Emitter) Emit(ctx context.Context, recipientID string, role models.UserRole, message, orderID string) error {
	n := &models.Notification{
		RecipientID:    recipientID,
		RecipientRole:  role,
		Message:        message,
		RelatedOrderID: orderID,
		CreatedAt:      e.now().UTC(),
	}
	if err := e.store.Create(ctx, n); err != nil {
		return apperrors.NewNotificationDeliveryError(
			fmt.Sprintf("notify %s %s about order %s", role, recipientID, orderID), err)
	}
	return nil
}

// OrderEvent notifies every party that should hear about the order reaching
// its current status. All recipients are attempted; failures are logged and
// returned.
func (e *Emitter) OrderEvent(ctx context.Context, order *models.Order, parties Parties) []Failure {
	var failures []Failure
	message := Message(order)
	for _, r := range Recipients(order.Status, parties) {
		err := e.Emit(ctx, r.ID, r.Role, message, order.ID)
		if err == nil {
			continue
		}
		e.log.Error("notification not written",
			zap.String("errorKind", string(apperrors.KindNotificationDeliveryFailure)),
			zap.String("orderId", order.ID),
			zap.String("status", string(order.Status)),
			zap.String("recipientId", r.ID),
			zap.String("recipientRole", string(r.Role)),
			zap.Error(err),
		)
		failures = append(failures, Failure{RecipientID: r.ID, RecipientRole: r.Role, Error: err.Error()})
	}
	return failures
}
