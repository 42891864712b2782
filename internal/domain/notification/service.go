package notification

import (
	"context"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/sse"
)

// Notifier produces notifications on behalf of the domain services.
// Delivery is asynchronous; an error only means the request was not queued.
type Notifier interface {
	Notify(ctx context.Context, req CreateNotificationRequest) error
	NotifyAdmins(ctx context.Context, req CreateNotificationRequest) error
}

// Service defines the notification service interface
type Service interface {
	Notifier

	GetNotifications(ctx context.Context, req ListNotificationsRequest) (*NotificationListResponse, error)
	MarkAsRead(ctx context.Context, userID string, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) error

	// SSE subscription
	Subscribe(userID string) (<-chan sse.Event, func())

	// Lifecycle
	Start(ctx context.Context)
	Stop()
}
