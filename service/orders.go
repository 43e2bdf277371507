package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/authz"
	"food-delivery-orders/models"
	"food-delivery-orders/notify"
	"food-delivery-orders/statemachine"
	"food-delivery-orders/store"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	baseEstimateMinutes    = 30
	perItemEstimateMinutes = 5
)

type OrderService struct {
	orders      OrderRepository
	restaurants RestaurantRepository
	users       UserRepository
	emitter     *notify.Emitter
	log         *zap.Logger
	now         func() time.Time
}

func NewOrderService(orders OrderRepository, restaurants RestaurantRepository, users UserRepository, emitter *notify.Emitter, log *zap.Logger) *OrderService {
	return &OrderService{
		orders:      orders,
		restaurants: restaurants,
		users:       users,
		emitter:     emitter,
		log:         log,
		now:         time.Now,
	}
}

// WithClock replaces the time source used for timestamps.
func (s *OrderService) WithClock(now func() time.Time) *OrderService {
	s.now = now
	return s
}

type LineItemInput struct {
	MenuItemID string
	Quantity   int
}

type PlaceOrderInput struct {
	CustomerID      string
	RestaurantID    string
	Items           []LineItemInput
	DeliveryAddress string
	Notes           string
}

func (in PlaceOrderInput) validate() error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(in.CustomerID) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "customerId", Message: "is required"})
	}
	if strings.TrimSpace(in.RestaurantID) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "restaurantId", Message: "is required"})
	}
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "address", Message: "is required"})
	}
	if len(in.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{Field: "items", Message: "must contain at least one item"})
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.MenuItemID) == "" {
			details = append(details, apperrors.ValidationDetail{Field: fmt.Sprintf("items[%d].menuItemId", i), Message: "is required"})
		}
		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{Field: fmt.Sprintf("items[%d].quantity", i), Message: "must be at least 1"})
		}
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid order", details...)
	}
	return nil
}

// OrderResult is an order plus the notifications that could not be written
// for the event that produced it.
type OrderResult struct {
	Order                *models.Order    `json:"order"`
	NotificationFailures []notify.Failure `json:"-"`
}

// PlaceOrder snapshots the chosen menu items into a new pending order and
// notifies the restaurant.
func (s *OrderService) PlaceOrder(ctx context.Context, actor authz.Actor, in PlaceOrderInput) (*OrderResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.String("restaurant.id", in.RestaurantID),
	))
	defer span.End()

	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionPlaceOrder, authz.Resource{CustomerID: in.CustomerID}); err != nil {
		return nil, err
	}

	restaurant, err := s.restaurants.Get(ctx, in.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsOpen {
		return nil, apperrors.NewValidationError(fmt.Sprintf("restaurant %s is currently closed", restaurant.Name))
	}
	customer, err := s.users.Get(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for i, line := range in.Items {
		field := fmt.Sprintf("items[%d].menuItemId", i)
		menuItem, err := s.restaurants.GetMenuItem(ctx, line.MenuItemID)
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.NewValidationError("invalid order", apperrors.ValidationDetail{
				Field: field, Message: fmt.Sprintf("menu item %s not found", line.MenuItemID),
			})
		}
		if err != nil {
			return nil, err
		}
		if menuItem.RestaurantID != restaurant.ID {
			return nil, apperrors.NewValidationError("invalid order", apperrors.ValidationDetail{
				Field: field, Message: "menu item does not belong to this restaurant",
			})
		}
		if !menuItem.IsAvailable {
			return nil, apperrors.NewValidationError("invalid order", apperrors.ValidationDetail{
				Field: field, Message: fmt.Sprintf("menu item %q is not available", menuItem.Name),
			})
		}
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   line.Quantity,
		})
	}

	now := s.now().UTC()
	order := &models.Order{
		CustomerID:       customer.ID,
		CustomerName:     customer.Name,
		RestaurantID:     restaurant.ID,
		RestaurantName:   restaurant.Name,
		Status:           models.StatusPending,
		DeliveryAddress:  in.DeliveryAddress,
		Notes:            in.Notes,
		EstimatedMinutes: baseEstimateMinutes + perItemEstimateMinutes*len(items),
		Items:            items,
		StatusHistory: []models.StatusHistoryEntry{{
			Seq:       1,
			Status:    models.StatusPending,
			ActorID:   actor.ID,
			ActorRole: actor.Role,
			Note:      "Order placed by customer",
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	order.TotalAmount = order.ComputeTotal()

	if err := s.orders.Create(ctx, order); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	s.log.Info("order placed",
		zap.String("orderId", order.ID),
		zap.String("customerId", order.CustomerID),
		zap.String("restaurantId", order.RestaurantID),
		zap.String("total", order.TotalAmount.StringFixed(2)),
	)

	failures := s.emitter.OrderEvent(ctx, order, notify.Parties{
		CustomerID:        order.CustomerID,
		RestaurantOwnerID: restaurant.OwnerID,
	})
	return &OrderResult{Order: order, NotificationFailures: failures}, nil
}

type TransitionInput struct {
	OrderID        string
	ExpectedStatus models.OrderStatus
	NewStatus      models.OrderStatus
	Actor          authz.Actor
	Note           string
}

func (in TransitionInput) validate() error {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(in.OrderID) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "orderId", Message: "is required"})
	}
	if !in.ExpectedStatus.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "expectedCurrentStatus", Message: fmt.Sprintf("unknown status %q", in.ExpectedStatus)})
	}
	if !in.NewStatus.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "newStatus", Message: fmt.Sprintf("unknown status %q", in.NewStatus)})
	}
	if strings.TrimSpace(in.Actor.ID) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "actorId", Message: "is required"})
	}
	if !in.Actor.Role.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "actorRole", Message: fmt.Sprintf("unknown role %q", in.Actor.Role)})
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid transition request", details...)
	}
	return nil
}

// Transition moves an order from ExpectedStatus to NewStatus on behalf of the
// actor. The table check runs before the store is touched; the write itself
// is a compare-and-set, so a concurrent change makes this call fail with
// StaleState or AssignmentConflict instead of overwriting it. Notifications
// are written after the commit and their failures never undo it.
func (s *OrderService) Transition(ctx context.Context, in TransitionInput) (*OrderResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Transition", trace.WithAttributes(
		attribute.String("order.id", in.OrderID),
		attribute.String("order.status.from", string(in.ExpectedStatus)),
		attribute.String("order.status.to", string(in.NewStatus)),
		attribute.String("actor.role", string(in.Actor.Role)),
	))
	defer span.End()

	updated, parties, err := s.transition(ctx, in)
	if err != nil {
		span.SetStatus(codes.Error, string(apperrors.KindOf(err)))
		return nil, err
	}

	failures := s.emitter.OrderEvent(ctx, updated, parties)
	if len(failures) > 0 {
		span.AddEvent("notification failures", trace.WithAttributes(attribute.Int("count", len(failures))))
	}
	return &OrderResult{Order: updated, NotificationFailures: failures}, nil
}

func (s *OrderService) transition(ctx context.Context, in TransitionInput) (*models.Order, notify.Parties, error) {
	if err := in.validate(); err != nil {
		return nil, notify.Parties{}, err
	}
	if err := statemachine.CanTransition(in.ExpectedStatus, in.NewStatus, in.Actor.Role); err != nil {
		return nil, notify.Parties{}, err
	}

	order, err := s.orders.Get(ctx, in.OrderID)
	if err != nil {
		return nil, notify.Parties{}, err
	}
	parties, err := s.partiesOf(ctx, order)
	if err != nil {
		return nil, notify.Parties{}, err
	}

	claim := statemachine.IsAssignment(in.ExpectedStatus, in.NewStatus)
	action := authz.ActionTransitionOrder
	if claim {
		action = authz.ActionClaimOrder
	}
	if err := authz.Can(in.Actor, action, resourceOf(parties)); err != nil {
		return nil, notify.Parties{}, err
	}

	updated, err := s.orders.CompareAndSetStatus(ctx, store.StatusChange{
		OrderID:               in.OrderID,
		From:                  in.ExpectedStatus,
		To:                    in.NewStatus,
		ActorID:               in.Actor.ID,
		ActorRole:             in.Actor.Role,
		Note:                  in.Note,
		At:                    s.now().UTC(),
		AssignDeliveryPerson:  claim,
		RequireDeliveryPerson: in.Actor.Role == models.RoleDriver && !claim,
	})
	if err != nil {
		fields := []zap.Field{
			zap.String("orderId", in.OrderID),
			zap.String("from", string(in.ExpectedStatus)),
			zap.String("to", string(in.NewStatus)),
			zap.String("actorId", in.Actor.ID),
			zap.String("errorKind", string(apperrors.KindOf(err))),
		}
		switch apperrors.KindOf(err) {
		case apperrors.KindStaleState, apperrors.KindAssignmentConflict, apperrors.KindForbidden, apperrors.KindNotFound:
			s.log.Warn("order transition rejected", fields...)
		default:
			s.log.Error("order transition failed", append(fields, zap.Error(err))...)
		}
		return nil, notify.Parties{}, err
	}

	if updated.DeliveryPersonID != nil {
		parties.DeliveryPersonID = *updated.DeliveryPersonID
	}
	s.log.Info("order transitioned",
		zap.String("orderId", updated.ID),
		zap.String("from", string(in.ExpectedStatus)),
		zap.String("to", string(updated.Status)),
		zap.String("actorId", in.Actor.ID),
		zap.String("actorRole", string(in.Actor.Role)),
	)
	return updated, parties, nil
}

// partiesOf resolves the users involved in the order. The restaurant is
// represented by its owner.
func (s *OrderService) partiesOf(ctx context.Context, order *models.Order) (notify.Parties, error) {
	restaurant, err := s.restaurants.Get(ctx, order.RestaurantID)
	if err != nil {
		return notify.Parties{}, err
	}
	p := notify.Parties{CustomerID: order.CustomerID, RestaurantOwnerID: restaurant.OwnerID}
	if order.DeliveryPersonID != nil {
		p.DeliveryPersonID = *order.DeliveryPersonID
	}
	return p, nil
}

func resourceOf(p notify.Parties) authz.Resource {
	return authz.Resource{
		CustomerID:        p.CustomerID,
		RestaurantOwnerID: p.RestaurantOwnerID,
		DeliveryPersonID:  p.DeliveryPersonID,
	}
}

// GetOrder returns one order to any party of it, or to an admin.
func (s *OrderService) GetOrder(ctx context.Context, actor authz.Actor, orderID string) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	parties, err := s.partiesOf(ctx, order)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionViewOrder, resourceOf(parties)); err != nil {
		return nil, err
	}
	return order, nil
}

// CustomerHistory lists the customer's orders, newest first.
func (s *OrderService) CustomerHistory(ctx context.Context, actor authz.Actor, customerID string) ([]models.Order, error) {
	if err := authz.Can(actor, authz.ActionViewCustomerHistory, authz.Resource{CustomerID: customerID}); err != nil {
		return nil, err
	}
	return s.orders.ListByCustomer(ctx, customerID)
}

type RestaurantQueue struct {
	Pending  []models.Order `json:"pending"`
	Accepted []models.Order `json:"accepted"`
}

// RestaurantQueue lists the orders waiting on the restaurant, oldest first.
func (s *OrderService) RestaurantQueue(ctx context.Context, actor authz.Actor, restaurantID string) (*RestaurantQueue, error) {
	restaurant, err := s.restaurants.Get(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if err := authz.Can(actor, authz.ActionViewRestaurantQueue, authz.Resource{RestaurantOwnerID: restaurant.OwnerID}); err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByRestaurant(ctx, restaurantID, models.StatusPending, models.StatusAcceptedByRestaurant)
	if err != nil {
		return nil, err
	}
	queue := &RestaurantQueue{Pending: []models.Order{}, Accepted: []models.Order{}}
	for _, o := range orders {
		if o.Status == models.StatusPending {
			queue.Pending = append(queue.Pending, o)
		} else {
			queue.Accepted = append(queue.Accepted, o)
		}
	}
	return queue, nil
}

// DeliveryPool lists ready orders no driver has claimed, oldest first.
func (s *OrderService) DeliveryPool(ctx context.Context, actor authz.Actor) ([]models.Order, error) {
	if err := authz.Can(actor, authz.ActionViewDeliveryPool, authz.Resource{}); err != nil {
		return nil, err
	}
	return s.orders.ListAvailableForDelivery(ctx)
}

// DriverOrders lists the driver's active orders, most recently updated first.
func (s *OrderService) DriverOrders(ctx context.Context, actor authz.Actor, driverID string, includeCompleted bool) ([]models.Order, error) {
	if err := authz.Can(actor, authz.ActionViewDriverOrders, authz.Resource{DeliveryPersonID: driverID}); err != nil {
		return nil, err
	}
	statuses := []models.OrderStatus{models.StatusAcceptedByDelivery, models.StatusInDelivery}
	if includeCompleted {
		statuses = append(statuses, models.StatusDelivered)
	}
	return s.orders.ListByDeliveryPerson(ctx, driverID, statuses...)
}

type Overview struct {
	Orders       []models.Order             `json:"orders"`
	Total        int                        `json:"total"`
	StatusCounts map[models.OrderStatus]int `json:"statusCounts"`
	Revenue      decimal.Decimal            `json:"revenue"`
}

// AdminOverview lists orders across the platform with per-status counts and
// the revenue of delivered orders in the result set.
func (s *OrderService) AdminOverview(ctx context.Context, actor authz.Actor, filter store.OrderFilter) (*Overview, error) {
	if err := authz.Can(actor, authz.ActionAdminView, authz.Resource{}); err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid filter", apperrors.ValidationDetail{
			Field: "status", Message: fmt.Sprintf("unknown status %q", filter.Status),
		})
	}

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &Overview{
		Orders:       orders,
		Total:        len(orders),
		StatusCounts: make(map[models.OrderStatus]int, len(models.AllStatuses)),
		Revenue:      decimal.Zero,
	}
	for _, status := range models.AllStatuses {
		out.StatusCounts[status] = 0
	}
	for _, o := range orders {
		out.StatusCounts[o.Status]++
		if o.Status == models.StatusDelivered {
			out.Revenue = out.Revenue.Add(o.TotalAmount)
		}
	}
	return out, nil
}
