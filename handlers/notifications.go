package handlers

import (
	"net/http"

	"food-delivery-orders/middleware"
	"food-delivery-orders/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns a recipient's notifications; ?unread=true limits it to the
// ones not yet read.
func (h *NotificationHandler) List(c *gin.Context) {
	unread, err := queryBool(c, "unread")
	if err != nil {
		fail(c, err)
		return
	}
	list, err := h.notifications.List(c.Request.Context(), middleware.GetActor(c), c.Param("id"), unread)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "notifications": nonNil(list)})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, err := h.notifications.MarkRead(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}
