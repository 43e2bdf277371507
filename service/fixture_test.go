package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"food-delivery-orders/authz"
	"food-delivery-orders/models"
	"food-delivery-orders/notify"
	"food-delivery-orders/store"
	"food-delivery-orders/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// tickingClock advances one second per call so every timestamp is distinct.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	orders        *OrderService
	orderStore    *store.OrderStore
	notifications *store.NotificationStore
	restaurants   *store.RestaurantStore

	customer   *models.User
	owner      *models.User
	otherOwner *models.User
	driverA    *models.User
	driverB    *models.User
	admin      *models.User

	restaurant *models.Restaurant
	burger     *models.MenuItem
	fries      *models.MenuItem
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWithNotifications(t, nil)
}

// newFixtureWithNotifications builds the fixture; a non-nil sink replaces the
// notification store the emitter writes to.
func newFixtureWithNotifications(t *testing.T, sink notify.Store) *fixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clock := &tickingClock{now: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)}

	f := &fixture{
		orderStore:    store.NewOrderStore(db),
		notifications: store.NewNotificationStore(db),
		restaurants:   store.NewRestaurantStore(db),
	}
	if sink == nil {
		sink = f.notifications
	}
	emitter := notify.NewEmitter(sink, zap.NewNop()).WithClock(clock.Now)
	f.orders = NewOrderService(f.orderStore, f.restaurants, store.NewUserStore(db), emitter, zap.NewNop()).WithClock(clock.Now)

	f.customer = testutil.SeedUser(t, db, models.RoleCustomer, "carol")
	f.owner = testutil.SeedUser(t, db, models.RoleRestaurant, "oscar")
	f.otherOwner = testutil.SeedUser(t, db, models.RoleRestaurant, "olga")
	f.driverA = testutil.SeedUser(t, db, models.RoleDriver, "dana")
	f.driverB = testutil.SeedUser(t, db, models.RoleDriver, "dave")
	f.admin = testutil.SeedUser(t, db, models.RoleAdmin, "ada")

	f.restaurant = testutil.SeedRestaurant(t, db, f.owner.ID, "Pizza Place")
	f.burger = testutil.SeedMenuItem(t, db, f.restaurant.ID, "Burger", "8.99")
	f.fries = testutil.SeedMenuItem(t, db, f.restaurant.ID, "Fries", "3.99")
	return f
}

func actorOf(u *models.User) authz.Actor {
	return authz.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) placeOrder(t *testing.T) *models.Order {
	t.Helper()
	res, err := f.orders.PlaceOrder(context.Background(), actorOf(f.customer), PlaceOrderInput{
		CustomerID:   f.customer.ID,
		RestaurantID: f.restaurant.ID,
		Items: []LineItemInput{
			{MenuItemID: f.burger.ID, Quantity: 2},
			{MenuItemID: f.fries.ID, Quantity: 1},
		},
		DeliveryAddress: "42 Elm St",
	})
	require.NoError(t, err)
	return res.Order
}

func (f *fixture) move(t *testing.T, orderID string, from, to models.OrderStatus, actor *models.User) *models.Order {
	t.Helper()
	res, err := f.orders.Transition(context.Background(), TransitionInput{
		OrderID:        orderID,
		ExpectedStatus: from,
		NewStatus:      to,
		Actor:          actorOf(actor),
	})
	require.NoError(t, err)
	return res.Order
}

func (f *fixture) try(orderID string, from, to models.OrderStatus, actor *models.User) error {
	_, err := f.orders.Transition(context.Background(), TransitionInput{
		OrderID:        orderID,
		ExpectedStatus: from,
		NewStatus:      to,
		Actor:          actorOf(actor),
	})
	return err
}

// readyOrder places an order and walks it to ready_for_delivery.
func (f *fixture) readyOrder(t *testing.T) *models.Order {
	t.Helper()
	order := f.placeOrder(t)
	f.move(t, order.ID, models.StatusPending, models.StatusAcceptedByRestaurant, f.owner)
	return f.move(t, order.ID, models.StatusAcceptedByRestaurant, models.StatusReadyForDelivery, f.owner)
}

func historyStatuses(order *models.Order) []models.OrderStatus {
	out := make([]models.OrderStatus, 0, len(order.StatusHistory))
	for _, e := range order.StatusHistory {
		out = append(out, e.Status)
	}
	return out
}
