package store

import (
	"context"
	"testing"
	"time"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/models"
	"food-delivery-orders/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationStore_ListAndMarkRead(t *testing.T) {
	s := NewNotificationStore(testutil.SetupTestDB(t))
	ctx := context.Background()

	older := &models.Notification{RecipientID: "c1", RecipientRole: models.RoleCustomer, Message: "accepted", RelatedOrderID: "o1", CreatedAt: base}
	newer := &models.Notification{RecipientID: "c1", RecipientRole: models.RoleCustomer, Message: "ready", RelatedOrderID: "o1", CreatedAt: base.Add(time.Minute)}
	other := &models.Notification{RecipientID: "c2", RecipientRole: models.RoleCustomer, Message: "accepted", RelatedOrderID: "o2", CreatedAt: base}
	for _, n := range []*models.Notification{older, newer, other} {
		require.NoError(t, s.Create(ctx, n))
	}

	list, err := s.ListForRecipient(ctx, "c1", true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	require.NoError(t, s.MarkRead(ctx, older.ID))
	require.NoError(t, s.MarkRead(ctx, older.ID))

	unread, err := s.ListForRecipient(ctx, "c1", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, newer.ID, unread[0].ID)

	all, err := s.ListForRecipient(ctx, "c1", false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	got, err := s.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, got.IsRead)
	assert.Equal(t, "accepted", got.Message)

	forOrder, err := s.ListForOrder(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, forOrder, 2)
}

func TestNotificationStore_Get_NotFound(t *testing.T) {
	s := NewNotificationStore(testutil.SetupTestDB(t))

	_, err := s.Get(context.Background(), "nope")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestRestaurantStore_MenuLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := NewRestaurantStore(db)
	ctx := context.Background()

	r := testutil.SeedRestaurant(t, db, "owner-1", "Pizza Place")
	burger := testutil.SeedMenuItem(t, db, r.ID, "Burger", "8.99")
	testutil.SeedMenuItem(t, db, r.ID, "Fries", "3.99")

	menu, err := s.ListMenu(ctx, r.ID, MenuFilter{})
	require.NoError(t, err)
	assert.Len(t, menu, 2)

	updated, err := s.UpdateMenuItem(ctx, burger.ID, map[string]any{"is_available": false})
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)

	available, err := s.ListMenu(ctx, r.ID, MenuFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, available, 1)

	require.NoError(t, s.DeleteMenuItem(ctx, burger.ID))
	_, err = s.GetMenuItem(ctx, burger.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))

	err = s.DeleteMenuItem(ctx, burger.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestRestaurantStore_ListAndUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := NewRestaurantStore(db)
	ctx := context.Background()

	open := testutil.SeedRestaurant(t, db, "owner-1", "Open Kitchen")
	closed := testutil.SeedRestaurant(t, db, "owner-2", "Closed Diner")
	_, err := s.Update(ctx, closed.ID, map[string]any{"is_open": false, "cuisine": "diner"})
	require.NoError(t, err)

	list, err := s.List(ctx, RestaurantFilter{OpenOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)

	list, err = s.List(ctx, RestaurantFilter{Cuisine: "din"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, closed.ID, list[0].ID)

	_, err = s.Get(ctx, "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestUserStore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	alice := testutil.SeedUser(t, db, models.RoleCustomer, "alice")
	testutil.SeedUser(t, db, models.RoleDriver, "dan")

	got, err := s.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	drivers, err := s.List(ctx, models.RoleDriver)
	require.NoError(t, err)
	assert.Len(t, drivers, 1)

	_, err = s.Get(ctx, "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
