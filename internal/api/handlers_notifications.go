package api

import (
	"errors"
	"net/http"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func notificationList(c *gin.Context) models.NotificationListResponse {
	center := sessionFrom(c).Notifications
	return models.NotificationListResponse{
		Unread:        center.UnreadCount(),
		Notifications: center.List(),
	}
}

func handleListNotifications(c *gin.Context) {
	respondJSON(c, http.StatusOK, "ok", notificationList(c))
}

// handleMarkRead answers as soon as the flag is set locally. The write
// finishes after the response; a failure rolls the flag back.
func handleMarkRead(c *gin.Context) {
	sess := sessionFrom(c)
	id := c.Param("id")

	result := sess.Notifications.MarkRead(c.Request.Context(), id)
	select {
	case err, ok := <-result:
		// Rejected before queueing, or already read.
		if ok && err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(c, http.StatusNotFound, "Notification not found")
				return
			}
			respondFailure(c, err)
			return
		}
	default:
		go func() {
			if err := <-result; err != nil {
				zap.L().Warn("Mark read failed", zap.String("uid", sess.Uid), zap.String("id", id), zap.Error(err))
			}
		}()
	}
	respondJSON(c, http.StatusAccepted, "ok", notificationList(c))
}

func handleMarkAllRead(c *gin.Context) {
	if err := sessionFrom(c).Notifications.MarkAllRead(c.Request.Context()); err != nil {
		respondFailure(c, err)
		return
	}
	respondJSON(c, http.StatusOK, "ok", notificationList(c))
}
