package handlers

import (
	"net/http"

	"food-delivery-orders/middleware"
	"food-delivery-orders/models"
	"food-delivery-orders/service"
	"food-delivery-orders/store"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	orders      *service.OrderService
	auth        *service.AuthService
	restaurants *service.RestaurantService
}

func NewAdminHandler(orders *service.OrderService, auth *service.AuthService, restaurants *service.RestaurantService) *AdminHandler {
	return &AdminHandler{orders: orders, auth: auth, restaurants: restaurants}
}

// Orders returns all orders with per-status counts (admin only)
func (h *AdminHandler) Orders(c *gin.Context) {
	overview, err := h.orders.AdminOverview(c.Request.Context(), middleware.GetActor(c), store.OrderFilter{
		Status:       models.OrderStatus(c.Query("status")),
		CustomerID:   c.Query("customerId"),
		RestaurantID: c.Query("restaurantId"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":        overview.Total,
		"statusCounts": overview.StatusCounts,
		"revenue":      overview.Revenue.StringFixed(2),
		"orders":       nonNil(overview.Orders),
	})
}

// Users returns all registered users, optionally ?role=
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.auth.Users(c.Request.Context(), middleware.GetActor(c), c.Query("role"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": nonNil(users)})
}

func (h *AdminHandler) Restaurants(c *gin.Context) {
	restaurants, err := h.restaurants.List(c.Request.Context(), store.RestaurantFilter{})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": nonNil(restaurants)})
}
