package handler

import (
	"context"
	"net/http"

	model "auction-engine/internal/models"
	"auction-engine/services/bidding/helpers"
	"auction-engine/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=notification_handler.go -destination=mock_notification_handler.go -package=handler

type NotificationServiceInterface interface {
	ListForUser(ctx context.Context, recipient model.Identity) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, recipient model.Identity) (int64, error)
	Delete(ctx context.Context, notificationID string, recipient model.Identity) error
}

type NotificationHandler struct {
	service NotificationServiceInterface
}

func NewNotificationHandler(service NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListHandler handles GET /notifications
func (h *NotificationHandler) ListHandler(c *gin.Context) {
	user, ok := caller(c, "ListNotificationsHandler")
	if !ok {
		return
	}

	notices, err := h.service.ListForUser(c.Request.Context(), user.Identity)
	if err != nil {
		helpers.HandleServiceError(c, "ListNotificationsHandler", "error retrieving notifications", err, map[string]any{"user": user.Key()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToNotificationResponses(notices), "notifications retrieved successfully")
}

// MarkAllReadHandler handles POST /notifications/read-all
func (h *NotificationHandler) MarkAllReadHandler(c *gin.Context) {
	user, ok := caller(c, "MarkAllReadHandler")
	if !ok {
		return
	}

	n, err := h.service.MarkAllRead(c.Request.Context(), user.Identity)
	if err != nil {
		helpers.HandleServiceError(c, "MarkAllReadHandler", "failed to mark notifications read", err, map[string]any{"user": user.Key()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"updated": n}, "notifications marked as read")
	helpers.LogSuccess("MarkAllReadHandler", "notifications marked as read", map[string]any{
		"user":    user.Key(),
		"updated": n,
	})
}

// DeleteHandler handles DELETE /notifications/:notification_id
func (h *NotificationHandler) DeleteHandler(c *gin.Context) {
	user, ok := caller(c, "DeleteNotificationHandler")
	if !ok {
		return
	}

	id := c.Param("notification_id")
	if err := h.service.Delete(c.Request.Context(), id, user.Identity); err != nil {
		helpers.HandleServiceError(c, "DeleteNotificationHandler", "failed to delete notification", err, map[string]any{
			"user":            user.Key(),
			"notification_id": id,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"notification_id": id}, "notification deleted")
}
