package handlers

import (
	"context"
	"net/http"
	"time"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/models"
	"food-delivery-orders/statemachine"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type PublicHandler struct {
	db      Pinger
	version string
}

func NewPublicHandler(db Pinger, version string) *PublicHandler {
	return &PublicHandler{db: db, version: version}
}

// Health reports liveness together with store reachability
func (h *PublicHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code, store := "healthy", http.StatusOK, "up"
	if err := h.db.PingContext(ctx); err != nil {
		status, code, store = "degraded", http.StatusServiceUnavailable, "down"
	}
	c.JSON(code, gin.H{
		"status":  status,
		"store":   store,
		"service": "Food Delivery Order Lifecycle API",
		"version": h.version,
	})
}

// StateMachine returns the full transition table. With ?role=&from= it
// returns only the next statuses that role may choose from that status.
func (h *PublicHandler) StateMachine(c *gin.Context) {
	role, from := c.Query("role"), c.Query("from")
	if role == "" && from == "" {
		c.JSON(http.StatusOK, gin.H{
			"stateMachine":   statemachine.GetAllTransitions(),
			"terminalStates": statemachine.TerminalStates(),
			"description":    "Food Delivery Order Lifecycle State Machine",
		})
		return
	}

	var details []apperrors.ValidationDetail
	actor, ok := models.ParseRole(role)
	if !ok {
		details = append(details, apperrors.ValidationDetail{Field: "role", Message: "must be one of customer, restaurant, delivery, admin"})
	}
	status := models.OrderStatus(from)
	if !status.Valid() {
		details = append(details, apperrors.ValidationDetail{Field: "from", Message: "must be a known order status"})
	}
	if len(details) > 0 {
		fail(c, apperrors.NewValidationError("invalid query parameters", details...))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":    actor,
		"from":    status,
		"allowed": nonNil(statemachine.AllowedFor(actor, status)),
	})
}
