package notification

import (
	"time"
)

// CreateNotificationRequest is queued by the domain services. Recipient is
// resolved by the caller, or left empty with NotifyAdmins.
type CreateNotificationRequest struct {
	RecipientID   string
	Type          NotificationType
	Title         string
	Message       string
	RelatedEntity *RelatedEntity
}

// ListNotificationsRequest represents a request to list notifications
type ListNotificationsRequest struct {
	UserID     string
	Page       int
	PageSize   int
	UnreadOnly bool
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID            string           `json:"id"`
	Type          NotificationType `json:"type"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	RelatedEntity *RelatedEntity   `json:"related_entity,omitempty"`
	IsRead        bool             `json:"is_read"`
	ReadAt        *time.Time       `json:"read_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func ToResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		Type:          n.Type,
		Title:         n.Title,
		Message:       n.Message,
		RelatedEntity: n.RelatedEntity,
		IsRead:        n.IsRead,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}
