package handlers

import (
	"net/http"

	"food-delivery-orders/middleware"
	"food-delivery-orders/service"
	"food-delivery-orders/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RestaurantHandler struct {
	restaurants *service.RestaurantService
}

func NewRestaurantHandler(restaurants *service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants}
}

// ── Public catalogue ────────────────────────────────────────────────────────

// List returns restaurants, filtered by ?cuisine, ?search and ?open=true
func (h *RestaurantHandler) List(c *gin.Context) {
	openOnly, err := queryBool(c, "open")
	if err != nil {
		fail(c, err)
		return
	}
	restaurants, err := h.restaurants.List(c.Request.Context(), store.RestaurantFilter{
		Cuisine:  c.Query("cuisine"),
		Search:   c.Query("search"),
		OpenOnly: openOnly,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": nonNil(restaurants)})
}

func (h *RestaurantHandler) Get(c *gin.Context) {
	restaurant, err := h.restaurants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// Menu returns the menu for a specific restaurant (public)
func (h *RestaurantHandler) Menu(c *gin.Context) {
	availableOnly, err := queryBool(c, "available")
	if err != nil {
		fail(c, err)
		return
	}
	items, err := h.restaurants.Menu(c.Request.Context(), c.Param("id"), store.MenuFilter{
		Category:      c.Query("category"),
		AvailableOnly: availableOnly,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": nonNil(items)})
}

// ── Restaurant management ───────────────────────────────────────────────────

type CreateRestaurantRequest struct {
	Name        string `json:"name" binding:"required"`
	Cuisine     string `json:"cuisine"`
	Address     string `json:"address" binding:"required"`
	Description string `json:"description"`
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name"`
	Cuisine     *string `json:"cuisine"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
	IsOpen      *bool   `json:"isOpen"`
}

// Create lets a restaurant-role user create their restaurant
func (h *RestaurantHandler) Create(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	restaurant, err := h.restaurants.Create(c.Request.Context(), middleware.GetActor(c), service.RestaurantInput{
		Name:        req.Name,
		Cuisine:     req.Cuisine,
		Address:     req.Address,
		Description: req.Description,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": restaurant})
}

// Update changes restaurant details; only the fields present are touched
func (h *RestaurantHandler) Update(c *gin.Context) {
	var req UpdateRestaurantRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	restaurant, err := h.restaurants.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), service.RestaurantUpdate{
		Name:        req.Name,
		Cuisine:     req.Cuisine,
		Address:     req.Address,
		Description: req.Description,
		IsOpen:      req.IsOpen,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": restaurant})
}

// ── Menu management ─────────────────────────────────────────────────────────

type CreateMenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"isAvailable"`
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"isAvailable"`
}

// AddMenuItem adds a new item to the restaurant's menu
func (h *RestaurantHandler) AddMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	item, err := h.restaurants.AddMenuItem(c.Request.Context(), middleware.GetActor(c), c.Param("id"), service.MenuItemInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem updates a menu item (only by the owner)
func (h *RestaurantHandler) UpdateMenuItem(c *gin.Context) {
	var req UpdateMenuItemRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	item, err := h.restaurants.UpdateMenuItem(c.Request.Context(), middleware.GetActor(c), c.Param("itemId"), service.MenuItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes a menu item
func (h *RestaurantHandler) DeleteMenuItem(c *gin.Context) {
	if err := h.restaurants.DeleteMenuItem(c.Request.Context(), middleware.GetActor(c), c.Param("itemId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
