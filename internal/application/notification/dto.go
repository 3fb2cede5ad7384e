package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/domain/shared"
)

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	Title     string         `json:"title" binding:"required,min=1,max=255"`
	Message   string         `json:"message" binding:"required"`
	Type      string         `json:"type" binding:"required,max=50"`
	Priority  string         `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	ActionURL string         `json:"action_url" binding:"omitempty,max=500"`
	ExpiresAt *time.Time     `json:"expires_at"`
	SentVia   string         `json:"sent_via" binding:"omitempty,oneof=email sms telegram all none"`
	Metadata  map[string]any `json:"metadata"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Priority  string         `json:"priority"`
	ActionURL string         `json:"action_url,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	SentVia   string         `json:"sent_via"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	Metadata  map[string]any `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

// NotificationListFilter represents filter options for the notification list
type NotificationListFilter struct {
	Type           string `form:"type"`
	Priority       string `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
	IsRead         *bool  `form:"is_read"`
	IncludeExpired bool   `form:"include_expired"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage        int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// ToDomain converts the list filter to a shared.Filter. Newest first.
func (f NotificationListFilter) ToDomain() shared.Filter {
	size := f.PageSize
	if size == 0 {
		size = f.PerPage
	}
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: size,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
	if f.Type != "" {
		filter.Filters["type"] = f.Type
	}
	if f.Priority != "" {
		filter.Filters["priority"] = f.Priority
	}
	if f.IsRead != nil {
		filter.Filters["is_read"] = *f.IsRead
	}
	if f.IncludeExpired {
		filter.Filters["include_expired"] = true
	}
	return filter.Normalize()
}

// UnreadCountResponse is the unread badge count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse reports how many notifications were marked
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ToNotificationResponse converts a domain notification to a response
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	md := map[string]any(n.Metadata)
	if md == nil {
		md = map[string]any{}
	}
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Priority:  string(n.Priority),
		ActionURL: n.ActionURL,
		ExpiresAt: n.ExpiresAt,
		SentVia:   string(n.SentVia),
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		Metadata:  md,
		CreatedAt: n.CreatedAt,
	}
}
