package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the canonical lifecycle status of an order.
type OrderStatus string

const (
	StatusPending              OrderStatus = "pending"
	StatusAcceptedByRestaurant OrderStatus = "accepted_by_restaurant"
	StatusRejectedByRestaurant OrderStatus = "rejected_by_restaurant"
	StatusReadyForDelivery     OrderStatus = "ready_for_delivery"
	StatusAcceptedByDelivery   OrderStatus = "accepted_by_delivery"
	StatusInDelivery           OrderStatus = "in_delivery"
	StatusDelivered            OrderStatus = "delivered"
	StatusCancelled            OrderStatus = "cancelled"
)

var AllStatuses = []OrderStatus{
	StatusPending,
	StatusAcceptedByRestaurant,
	StatusRejectedByRestaurant,
	StatusReadyForDelivery,
	StatusAcceptedByDelivery,
	StatusInDelivery,
	StatusDelivered,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusRejectedByRestaurant || s == StatusCancelled
}

// Order is a snapshot of the purchase taken at placement time. Only Status,
// StatusHistory, DeliveryPersonID and UpdatedAt change afterwards.
type Order struct {
	ID               string               `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CustomerID       string               `json:"customerId" gorm:"type:varchar(36);not null;index"`
	CustomerName     string               `json:"customerName"`
	RestaurantID     string               `json:"restaurantId" gorm:"type:varchar(36);not null;index"`
	RestaurantName   string               `json:"restaurantName"`
	DeliveryPersonID *string              `json:"deliveryPersonId" gorm:"type:varchar(36);index"`
	Status           OrderStatus          `json:"status" gorm:"type:varchar(32);not null;index"`
	TotalAmount      decimal.Decimal      `json:"totalAmount" gorm:"type:decimal(12,2);not null"`
	DeliveryAddress  string               `json:"deliveryAddress" gorm:"not null"`
	Notes            string               `json:"notes"`
	EstimatedMinutes int                  `json:"estimatedMinutes"`
	Items            []OrderItem          `json:"items" gorm:"foreignKey:OrderID"`
	StatusHistory    []StatusHistoryEntry `json:"statusHistory" gorm:"foreignKey:OrderID"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// ComputeTotal sums price × quantity over the line items.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// LastHistoryEntry returns the most recent history entry, if any.
func (o *Order) LastHistoryEntry() (StatusHistoryEntry, bool) {
	if len(o.StatusHistory) == 0 {
		return StatusHistoryEntry{}, false
	}
	last := o.StatusHistory[0]
	for _, entry := range o.StatusHistory[1:] {
		if entry.Seq > last.Seq {
			last = entry
		}
	}
	return last, true
}

type OrderItem struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string          `json:"orderId" gorm:"type:varchar(36);not null;index"`
	MenuItemID string          `json:"menuItemId" gorm:"type:varchar(36);not null"`
	Name       string          `json:"name" gorm:"not null"`                     // snapshot
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"` // snapshot
	Quantity   int             `json:"quantity" gorm:"not null"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StatusHistoryEntry is one append-only record of a status change. Seq is
// 1-based and unique per order.
type StatusHistoryEntry struct {
	ID        string      `json:"-" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string      `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_history_order_seq"`
	Seq       int         `json:"seq" gorm:"not null;uniqueIndex:idx_history_order_seq"`
	Status    OrderStatus `json:"status" gorm:"type:varchar(32);not null"`
	ActorID   string      `json:"actorId" gorm:"type:varchar(36)"`
	ActorRole UserRole    `json:"actorRole" gorm:"type:varchar(16)"`
	Note      string      `json:"note,omitempty"`
	Timestamp time.Time   `json:"timestamp" gorm:"not null"`
}

func (StatusHistoryEntry) TableName() string {
	return "order_status_history"
}

func (e *StatusHistoryEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
