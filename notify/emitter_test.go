package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/models"
	"food-delivery-orders/store"
	"food-delivery-orders/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingStore struct {
	failFor map[string]bool
	written []models.Notification
}

func (s *failingStore) Create(_ context.Context, n *models.Notification) error {
	if s.failFor[n.RecipientID] {
		return errors.New("disk full")
	}
	s.written = append(s.written, *n)
	return nil
}

var fixed = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

func TestRecipients(t *testing.T) {
	parties := Parties{CustomerID: "cust", RestaurantOwnerID: "owner", DeliveryPersonID: "drv"}

	tests := []struct {
		status models.OrderStatus
		want   []string
	}{
		{models.StatusPending, []string{"owner"}},
		{models.StatusAcceptedByRestaurant, []string{"cust"}},
		{models.StatusRejectedByRestaurant, []string{"cust"}},
		{models.StatusReadyForDelivery, []string{"cust"}},
		{models.StatusAcceptedByDelivery, []string{"cust", "owner"}},
		{models.StatusInDelivery, []string{"cust", "owner"}},
		{models.StatusDelivered, []string{"cust", "owner"}},
		{models.StatusCancelled, []string{"owner", "drv"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			var got []string
			for _, r := range Recipients(tt.status, parties) {
				got = append(got, r.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecipients_SkipsUnassignedDriver(t *testing.T) {
	got := Recipients(models.StatusCancelled, Parties{CustomerID: "cust", RestaurantOwnerID: "owner"})
	require.Len(t, got, 1)
	assert.Equal(t, Recipient{ID: "owner", Role: models.RoleRestaurant}, got[0])
}

func TestMessage(t *testing.T) {
	order := &models.Order{ID: "0123456789abcdef", RestaurantName: "Pizza Place", Status: models.StatusAcceptedByRestaurant}
	assert.Equal(t, "Order 01234567 from Pizza Place was accepted by the restaurant", Message(order))

	order.RestaurantName = ""
	order.Status = models.StatusDelivered
	assert.Equal(t, "Order 01234567 was delivered", Message(order))
}

func TestEmitter_Emit_Persists(t *testing.T) {
	s := store.NewNotificationStore(testutil.SetupTestDB(t))
	e := NewEmitter(s, zap.NewNop()).WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	require.NoError(t, e.Emit(ctx, "cust", models.RoleCustomer, "hello", "order-1"))

	list, err := s.ListForRecipient(ctx, "cust", true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hello", list[0].Message)
	assert.Equal(t, "order-1", list[0].RelatedOrderID)
	assert.False(t, list[0].IsRead)
	assert.True(t, fixed.Equal(list[0].CreatedAt))
}

func TestEmitter_OrderEvent_ReportsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	fs := &failingStore{failFor: map[string]bool{"owner": true}}
	e := NewEmitter(fs, zap.New(core))

	order := &models.Order{ID: "order-1", Status: models.StatusInDelivery}
	failures := e.OrderEvent(context.Background(), order, Parties{CustomerID: "cust", RestaurantOwnerID: "owner"})

	require.Len(t, failures, 1)
	assert.Equal(t, "owner", failures[0].RecipientID)
	assert.Equal(t, models.RoleRestaurant, failures[0].RecipientRole)

	require.Len(t, fs.written, 1)
	assert.Equal(t, "cust", fs.written[0].RecipientID)

	entries := logs.FilterField(zap.String("errorKind", string(apperrors.KindNotificationDeliveryFailure))).All()
	assert.Len(t, entries, 1)
}

func TestEmitter_Emit_WrapsStoreError(t *testing.T) {
	e := NewEmitter(&failingStore{failFor: map[string]bool{"cust": true}}, zap.NewNop())

	err := e.Emit(context.Background(), "cust", models.RoleCustomer, "hi", "order-1")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotificationDeliveryFailure))
}
