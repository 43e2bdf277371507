package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/models"

	"gorm.io/gorm"
)

// OrderStore is the single authoritative record of orders. Every status
// change goes through CompareAndSetStatus.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// StatusChange is one compare-and-set request against an order's status.
type StatusChange struct {
	OrderID   string
	From      models.OrderStatus
	To        models.OrderStatus
	ActorID   string
	ActorRole models.UserRole
	Note      string
	At        time.Time
	// AssignDeliveryPerson sets delivery_person_id to ActorID, guarded by
	// "currently unassigned".
	AssignDeliveryPerson bool
	// RequireDeliveryPerson guards the update with delivery_person_id = ActorID.
	RequireDeliveryPerson bool
}

type OrderFilter struct {
	Status       models.OrderStatus
	CustomerID   string
	RestaurantID string
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Items").Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	})
}

// Create inserts the order together with its items and history in one
// transaction.
func (s *OrderStore) Create(ctx context.Context, order *models.Order) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	return classify("create order", err)
}

func (s *OrderStore) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := withDetails(s.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		return nil, notFound("order", id, err)
	}
	return &order, nil
}

// CompareAndSetStatus moves the order from change.From to change.To only if
// its stored status still equals change.From, and appends the history entry
// in the same transaction. On a lost race the order is left untouched and a
// StaleState, AssignmentConflict or NotFound error is returned.
func (s *OrderStore) CompareAndSetStatus(ctx context.Context, change StatusChange) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":     change.To,
			"updated_at": change.At,
		}
		q := tx.Model(&models.Order{}).Where("id = ? AND status = ?", change.OrderID, change.From)
		if change.AssignDeliveryPerson {
			q = q.Where("delivery_person_id IS NULL")
			updates["delivery_person_id"] = change.ActorID
		}
		if change.RequireDeliveryPerson {
			q = q.Where("delivery_person_id = ?", change.ActorID)
		}

		res := q.Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return casFailure(tx, change)
		}

		var lastSeq int
		if err := tx.Model(&models.StatusHistoryEntry{}).
			Where("order_id = ?", change.OrderID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&lastSeq).Error; err != nil {
			return err
		}

		entry := models.StatusHistoryEntry{
			OrderID:   change.OrderID,
			Seq:       lastSeq + 1,
			Status:    change.To,
			ActorID:   change.ActorID,
			ActorRole: change.ActorRole,
			Note:      change.Note,
			Timestamp: change.At,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, classify("transition order", err)
	}
	return s.Get(ctx, change.OrderID)
}

func casFailure(tx *gorm.DB, change StatusChange) error {
	var current models.Order
	err := tx.Select("id", "status", "delivery_person_id").First(&current, "id = ?", change.OrderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(fmt.Sprintf("order %s not found", change.OrderID))
	}
	if err != nil {
		return err
	}

	holder := ""
	if current.DeliveryPersonID != nil {
		holder = *current.DeliveryPersonID
	}
	if change.AssignDeliveryPerson && holder != "" && holder != change.ActorID {
		return apperrors.NewAssignmentConflictError(fmt.Sprintf("order %s was already accepted by another driver", change.OrderID))
	}
	if change.RequireDeliveryPerson && holder != change.ActorID && current.Status == change.From {
		return apperrors.NewForbiddenError(fmt.Sprintf("driver %s is not assigned to order %s", change.ActorID, change.OrderID))
	}
	return apperrors.NewStaleStateError(fmt.Sprintf(
		"order %s is %s, expected %s", change.OrderID, current.Status, change.From,
	))
}

// ListByCustomer returns the customer's orders, newest first.
func (s *OrderStore) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	var orders []models.Order
	err := withDetails(s.db.WithContext(ctx)).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, classify("list customer orders", err)
}

// ListByRestaurant returns the restaurant's orders in the given statuses,
// oldest first.
func (s *OrderStore) ListByRestaurant(ctx context.Context, restaurantID string, statuses ...models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	q := withDetails(s.db.WithContext(ctx)).Where("restaurant_id = ?", restaurantID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Order("created_at ASC").Find(&orders).Error
	return orders, classify("list restaurant orders", err)
}

// ListAvailableForDelivery returns ready orders nobody has claimed yet.
func (s *OrderStore) ListAvailableForDelivery(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := withDetails(s.db.WithContext(ctx)).
		Where("status = ? AND delivery_person_id IS NULL", models.StatusReadyForDelivery).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, classify("list available orders", err)
}

// ListByDeliveryPerson returns orders assigned to the driver, most recently
// updated first.
func (s *OrderStore) ListByDeliveryPerson(ctx context.Context, driverID string, statuses ...models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	q := withDetails(s.db.WithContext(ctx)).Where("delivery_person_id = ?", driverID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	err := q.Order("updated_at DESC").Find(&orders).Error
	return orders, classify("list driver orders", err)
}

func (s *OrderStore) List(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	q := withDetails(s.db.WithContext(ctx))
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.RestaurantID != "" {
		q = q.Where("restaurant_id = ?", filter.RestaurantID)
	}
	err := q.Order("created_at DESC").Find(&orders).Error
	return orders, classify("list orders", err)
}
