package handlers

import (
	"net/http"

	notificationRepo "dencare/database/repository/notification"
	"dencare/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler is the REST mirror of the websocket backlog and
// mark-read events.
type NotificationHandler struct {
	Repo         notificationRepo.Repository
	BacklogLimit int64
}

func NewNotificationHandler(repo notificationRepo.Repository, backlogLimit int64) *NotificationHandler {
	return &NotificationHandler{Repo: repo, BacklogLimit: backlogLimit}
}

// ListNotificationsHandler returns the caller's unread notifications,
// newest first.
func (h *NotificationHandler) ListNotificationsHandler(c *gin.Context) {
	notifications, err := h.Repo.ListUnread(c.Request.Context(), c.GetString("userID"), h.BacklogLimit)
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "temporarily unavailable", "please retry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationReadHandler flags one of the caller's notifications as
// read. A miss gets the generic denial.
func (h *NotificationHandler) MarkNotificationReadHandler(c *gin.Context) {
	updated, err := h.Repo.MarkRead(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "temporarily unavailable", "please retry")
		return
	}
	if !updated {
		utils.JSONError(c, http.StatusNotFound, "record not found", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notificationId": c.Param("id"), "isRead": true})
}
