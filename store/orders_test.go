package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/models"
	"food-delivery-orders/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func newOrder(customerID, restaurantID string, createdAt time.Time) *models.Order {
	order := &models.Order{
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		Status:          models.StatusPending,
		DeliveryAddress: "42 Elm St",
		Items: []models.OrderItem{
			{MenuItemID: "m1", Name: "Burger", Price: decimal.RequireFromString("8.99"), Quantity: 2},
		},
		StatusHistory: []models.StatusHistoryEntry{
			{Seq: 1, Status: models.StatusPending, ActorID: customerID, ActorRole: models.RoleCustomer, Timestamp: createdAt},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	order.TotalAmount = order.ComputeTotal()
	return order
}

func createOrder(t *testing.T, s *OrderStore, customerID, restaurantID string, createdAt time.Time) *models.Order {
	t.Helper()
	order := newOrder(customerID, restaurantID, createdAt)
	require.NoError(t, s.Create(context.Background(), order))
	return order
}

func change(orderID string, from, to models.OrderStatus, actor string, role models.UserRole) StatusChange {
	return StatusChange{OrderID: orderID, From: from, To: to, ActorID: actor, ActorRole: role, At: base.Add(time.Minute)}
}

func TestOrderStore_CreateAndGet(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))
	created := createOrder(t, s, "c1", "r1", base)

	got, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, "17.98", got.TotalAmount.StringFixed(2))
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Burger", got.Items[0].Name)
	require.Len(t, got.StatusHistory, 1)
	assert.Nil(t, got.DeliveryPersonID)
}

func TestOrderStore_Get_NotFound(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))

	_, err := s.Get(context.Background(), "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestOrderStore_CompareAndSetStatus_AppendsHistory(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))
	order := createOrder(t, s, "c1", "r1", base)

	updated, err := s.CompareAndSetStatus(context.Background(),
		change(order.ID, models.StatusPending, models.StatusAcceptedByRestaurant, "o1", models.RoleRestaurant))
	require.NoError(t, err)

	assert.Equal(t, models.StatusAcceptedByRestaurant, updated.Status)
	require.Len(t, updated.StatusHistory, 2)
	assert.Equal(t, 2, updated.StatusHistory[1].Seq)
	assert.Equal(t, models.StatusAcceptedByRestaurant, updated.StatusHistory[1].Status)
	assert.Equal(t, "o1", updated.StatusHistory[1].ActorID)
	assert.Equal(t, "17.98", updated.TotalAmount.StringFixed(2))
}

func TestOrderStore_CompareAndSetStatus_Stale(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))
	order := createOrder(t, s, "c1", "r1", base)
	ctx := context.Background()

	_, err := s.CompareAndSetStatus(ctx, change(order.ID, models.StatusPending, models.StatusAcceptedByRestaurant, "o1", models.RoleRestaurant))
	require.NoError(t, err)

	_, err = s.CompareAndSetStatus(ctx, change(order.ID, models.StatusPending, models.StatusAcceptedByRestaurant, "o1", models.RoleRestaurant))
	assert.True(t, apperrors.IsKind(err, apperrors.KindStaleState))

	got, err := s.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.StatusHistory, 2)
}

func TestOrderStore_CompareAndSetStatus_NotFound(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))

	_, err := s.CompareAndSetStatus(context.Background(),
		change("missing", models.StatusPending, models.StatusCancelled, "c1", models.RoleCustomer))
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func readyOrder(t *testing.T, s *OrderStore) *models.Order {
	t.Helper()
	ctx := context.Background()
	order := createOrder(t, s, "c1", "r1", base)
	_, err := s.CompareAndSetStatus(ctx, change(order.ID, models.StatusPending, models.StatusAcceptedByRestaurant, "o1", models.RoleRestaurant))
	require.NoError(t, err)
	ready, err := s.CompareAndSetStatus(ctx, change(order.ID, models.StatusAcceptedByRestaurant, models.StatusReadyForDelivery, "o1", models.RoleRestaurant))
	require.NoError(t, err)
	return ready
}

func TestOrderStore_AssignDeliveryPerson(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))
	order := readyOrder(t, s)
	ctx := context.Background()

	claim := change(order.ID, models.StatusReadyForDelivery, models.StatusAcceptedByDelivery, "d1", models.RoleDriver)
	claim.AssignDeliveryPerson = true
	got, err := s.CompareAndSetStatus(ctx, claim)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveryPersonID)
	assert.Equal(t, "d1", *got.DeliveryPersonID)

	claim.ActorID = "d2"
	_, err = s.CompareAndSetStatus(ctx, claim)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAssignmentConflict))
}

func TestOrderStore_RequireDeliveryPerson(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))
	order := readyOrder(t, s)
	ctx := context.Background()

	claim := change(order.ID, models.StatusReadyForDelivery, models.StatusAcceptedByDelivery, "d1", models.RoleDriver)
	claim.AssignDeliveryPerson = true
	_, err := s.CompareAndSetStatus(ctx, claim)
	require.NoError(t, err)

	pickup := change(order.ID, models.StatusAcceptedByDelivery, models.StatusInDelivery, "d2", models.RoleDriver)
	pickup.RequireDeliveryPerson = true
	_, err = s.CompareAndSetStatus(ctx, pickup)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	pickup.ActorID = "d1"
	got, err := s.CompareAndSetStatus(ctx, pickup)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInDelivery, got.Status)
}

func TestOrderStore_ConcurrentClaim_ExactlyOneWins(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))
	order := readyOrder(t, s)

	drivers := []string{"d1", "d2", "d3", "d4"}
	errs := make([]error, len(drivers))
	var wg sync.WaitGroup
	for i, d := range drivers {
		wg.Add(1)
		go func(i int, d string) {
			defer wg.Done()
			claim := change(order.ID, models.StatusReadyForDelivery, models.StatusAcceptedByDelivery, d, models.RoleDriver)
			claim.AssignDeliveryPerson = true
			_, errs[i] = s.CompareAndSetStatus(context.Background(), claim)
		}(i, d)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.True(t, apperrors.IsKind(err, apperrors.KindAssignmentConflict), err.Error())
	}
	assert.Equal(t, 1, winners)

	got, err := s.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveryPersonID)
	assert.Len(t, got.StatusHistory, 4)
}

func TestOrderStore_Views(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))
	ctx := context.Background()

	first := createOrder(t, s, "c1", "r1", base)
	second := createOrder(t, s, "c1", "r1", base.Add(time.Minute))
	createOrder(t, s, "c2", "r2", base.Add(2*time.Minute))

	history, err := s.ListByCustomer(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, second.ID, history[0].ID)
	assert.Equal(t, first.ID, history[1].ID)

	_, err = s.CompareAndSetStatus(ctx, change(first.ID, models.StatusPending, models.StatusAcceptedByRestaurant, "o1", models.RoleRestaurant))
	require.NoError(t, err)

	pending, err := s.ListByRestaurant(ctx, "r1", models.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	all, err := s.List(ctx, OrderFilter{RestaurantID: "r1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	available, err := s.ListAvailableForDelivery(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)
}

func TestOrderStore_DeliveryViews(t *testing.T) {
	s := NewOrderStore(testutil.SetupTestDB(t))
	ctx := context.Background()
	order := readyOrder(t, s)

	available, err := s.ListAvailableForDelivery(ctx)
	require.NoError(t, err)
	require.Len(t, available, 1)

	claim := change(order.ID, models.StatusReadyForDelivery, models.StatusAcceptedByDelivery, "d1", models.RoleDriver)
	claim.AssignDeliveryPerson = true
	_, err = s.CompareAndSetStatus(ctx, claim)
	require.NoError(t, err)

	available, err = s.ListAvailableForDelivery(ctx)
	require.NoError(t, err)
	assert.Empty(t, available)

	mine, err := s.ListByDeliveryPerson(ctx, "d1", models.StatusAcceptedByDelivery, models.StatusInDelivery)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := s.ListByDeliveryPerson(ctx, "d2")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
