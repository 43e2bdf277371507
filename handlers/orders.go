package handlers

import (
	"net/http"
	"time"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/middleware"
	"food-delivery-orders/models"
	"food-delivery-orders/notify"
	"food-delivery-orders/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type PlaceOrderRequest struct {
	CustomerID   string `json:"customerId" binding:"required"`
	RestaurantID string `json:"restaurantId" binding:"required"`
	Items        []struct {
		MenuItemID string `json:"menuItemId" binding:"required"`
		Quantity   int    `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1,dive"`
	Address string `json:"address" binding:"required"`
	Notes   string `json:"notes"`
}

type UpdateStatusRequest struct {
	ExpectedCurrentStatus models.OrderStatus `json:"expectedCurrentStatus" binding:"required"`
	NewStatus             models.OrderStatus `json:"newStatus" binding:"required"`
	ActorRole             string             `json:"actorRole"`
	ActorID               string             `json:"actorId"`
	Note                  string             `json:"note"`
}

// ResponseMeta reports side effects of a write that did not make it to
// the store.
type ResponseMeta struct {
	NotificationFailures []notify.Failure `json:"notificationFailures"`
}

func metaOf(res *service.OrderResult) ResponseMeta {
	failures := res.NotificationFailures
	if failures == nil {
		failures = []notify.Failure{}
	}
	return ResponseMeta{NotificationFailures: failures}
}

// PlaceOrder creates a new order (customer only)
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	in := service.PlaceOrderInput{
		CustomerID:      req.CustomerID,
		RestaurantID:    req.RestaurantID,
		DeliveryAddress: req.Address,
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, service.LineItemInput{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
	}

	res, err := h.orders.PlaceOrder(c.Request.Context(), middleware.GetActor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   res.Order,
		"meta":    metaOf(res),
	})
}

// GetOrder returns a single order's full detail with history
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), middleware.GetActor(c), c.Param("orderId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order":          order,
		"minutesElapsed": int(time.Since(order.CreatedAt).Minutes()),
	})
}

// UpdateStatus applies one lifecycle transition. The caller states the status
// it believes the order is in; if the order moved on meanwhile the request
// fails with StaleState.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	actor := middleware.GetActor(c)
	if req.ActorID != "" && req.ActorID != actor.ID {
		fail(c, apperrors.NewForbiddenError("actorId does not match the authenticated caller"))
		return
	}
	if req.ActorRole != "" {
		role, ok := models.ParseRole(req.ActorRole)
		if !ok {
			fail(c, apperrors.NewValidationError("invalid request body", apperrors.ValidationDetail{
				Field: "actorRole", Message: "must be one of customer, restaurant, delivery, admin",
			}))
			return
		}
		if role != actor.Role {
			fail(c, apperrors.NewForbiddenError("actorRole does not match the authenticated caller"))
			return
		}
	}

	res, err := h.orders.Transition(c.Request.Context(), service.TransitionInput{
		OrderID:        c.Param("orderId"),
		ExpectedStatus: req.ExpectedCurrentStatus,
		NewStatus:      req.NewStatus,
		Actor:          actor,
		Note:           req.Note,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order": res.Order,
		"meta":  metaOf(res),
	})
}

// CustomerHistory returns every order of a customer, newest first
func (h *OrderHandler) CustomerHistory(c *gin.Context) {
	orders, err := h.orders.CustomerHistory(c.Request.Context(), middleware.GetActor(c), c.Param("customerId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": nonNil(orders)})
}

// RestaurantQueue returns the orders the restaurant still has to act on
func (h *OrderHandler) RestaurantQueue(c *gin.Context) {
	queue, err := h.orders.RestaurantQueue(c.Request.Context(), middleware.GetActor(c), c.Param("restaurantId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"pending":  queue.Pending,
		"accepted": queue.Accepted,
		"count":    len(queue.Pending) + len(queue.Accepted),
	})
}

// DeliveryPool returns ready orders no driver has taken yet
func (h *OrderHandler) DeliveryPool(c *gin.Context) {
	orders, err := h.orders.DeliveryPool(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": nonNil(orders)})
}

// DriverOrders returns the driver's assigned orders
func (h *OrderHandler) DriverOrders(c *gin.Context) {
	includeCompleted, err := queryBool(c, "includeCompleted")
	if err != nil {
		fail(c, err)
		return
	}
	orders, err := h.orders.DriverOrders(c.Request.Context(), middleware.GetActor(c), c.Param("driverId"), includeCompleted)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": nonNil(orders)})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
