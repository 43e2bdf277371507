// Package service implements the order lifecycle and the supporting
// marketplace operations on top of the store.
package service

import (
	"context"

	"food-delivery-orders/models"
	"food-delivery-orders/store"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("food-delivery-orders/service")

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	CompareAndSetStatus(ctx context.Context, change store.StatusChange) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID string, statuses ...models.OrderStatus) ([]models.Order, error)
	ListAvailableForDelivery(ctx context.Context) ([]models.Order, error)
	ListByDeliveryPerson(ctx context.Context, driverID string, statuses ...models.OrderStatus) ([]models.Order, error)
	List(ctx context.Context, filter store.OrderFilter) ([]models.Order, error)
}

type RestaurantRepository interface {
	Create(ctx context.Context, r *models.Restaurant) error
	Get(ctx context.Context, id string) (*models.Restaurant, error)
	List(ctx context.Context, filter store.RestaurantFilter) ([]models.Restaurant, error)
	Update(ctx context.Context, id string, columns map[string]any) (*models.Restaurant, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	ListMenu(ctx context.Context, restaurantID string, filter store.MenuFilter) ([]models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id string, columns map[string]any) (*models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role models.UserRole) ([]models.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	Get(ctx context.Context, id string) (*models.Notification, error)
	ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}
