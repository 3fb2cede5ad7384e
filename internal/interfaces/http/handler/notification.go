package handler

import (
	"github.com/gin-gonic/gin"
	notificationapp "github.com/rentquote/backend/internal/application/notification"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *notificationapp.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *notificationapp.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Create godoc
// @ID           createNotification
// @Summary      Create a notification
// @Description  Stores the notification and sends it over sent_via. Delivery failures do not fail the request.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Param        request body notificationapp.CreateNotificationRequest true "Notification"
// @Success      201 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications [post]
func (h *NotificationHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req notificationapp.CreateNotificationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	n, err := h.notificationService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, n)
}

// GetByID godoc
// @ID           getNotificationById
// @Summary      Get a notification
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id} [get]
func (h *NotificationHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	n, err := h.notificationService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, n)
}

// List godoc
// @ID           listNotifications
// @Summary      List notifications
// @Description  Newest first. Expired notifications are hidden unless include_expired is set.
// @Tags         notifications
// @Produce      json
// @Param        type query string false "Type"
// @Param        priority query string false "Priority" Enums(low, normal, high, urgent)
// @Param        is_read query bool false "Read flag"
// @Param        include_expired query bool false "Include expired"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter notificationapp.NotificationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.notificationService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, items, total, filter.ToDomain())
}

// UnreadCount godoc
// @ID           getNotificationUnreadCount
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.UnreadCountResponse]
// @Security     BearerAuth
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, count)
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, n)
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark every notification as read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} APIResponse[notificationapp.MarkAllReadResponse]
// @Security     BearerAuth
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	result, err := h.notificationService.MarkAllRead(c.Request.Context(), accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// Delete godoc
// @ID           deleteNotification
// @Summary      Delete a notification
// @Tags         notifications
// @Param        id path string true "Notification ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
