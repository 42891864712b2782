package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/sse"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo      notification.Repository
	employees employee.EmployeeRepository
	hub       *sse.Hub
	clock     clockwork.Clock
	config    Config

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewNotificationService creates the service. Workers run after Start.
func NewNotificationService(repo notification.Repository, employees employee.EmployeeRepository, hub *sse.Hub, clock clockwork.Clock, cfg Config) notification.Service {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	return &service{
		repo:      repo,
		employees: employees,
		hub:       hub,
		clock:     clock,
		config:    cfg,
		queue:     make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the background workers.
func (s *service) Start(ctx context.Context) {
	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	slog.Info("notification service started",
		"workers", s.config.WorkerCount,
		"batch_size", s.config.BatchSize,
		"flush_interval", s.config.FlushInterval,
	)
}

// worker batches queued requests and flushes on size, tick or stop
func (s *service) worker(ctx context.Context, id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := s.clock.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.persist(context.WithoutCancel(ctx), id, batch)
		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.Chan():
			flush()
		case <-s.stopCh:
			s.drain(&batch)
			flush()
			return
		case <-ctx.Done():
			s.drain(&batch)
			flush()
			return
		}
	}
}

// drain moves whatever is still queued into batch.
func (s *service) drain(batch *[]notification.CreateNotificationRequest) {
	for {
		select {
		case req := <-s.queue:
			*batch = append(*batch, req)
		default:
			return
		}
	}
}

func (s *service) persist(ctx context.Context, workerID int, batch []notification.CreateNotificationRequest) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	now := s.clock.Now()
	notifications := make([]*notification.Notification, len(batch))
	for i, req := range batch {
		notifications[i] = &notification.Notification{
			ID:            uuid.New().String(),
			RecipientID:   req.RecipientID,
			Type:          req.Type,
			Title:         req.Title,
			Message:       req.Message,
			RelatedEntity: req.RelatedEntity,
			CreatedAt:     now,
		}
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		slog.Error("failed to insert notifications", "worker", workerID, "count", len(notifications), "error", err)
		return
	}

	for _, n := range notifications {
		s.hub.Publish(n.RecipientID, sse.Event{
			Name: "notification",
			Data: notification.ToResponse(n),
		})
	}
}

// Notify queues a notification for async processing. A full queue falls
// back to a synchronous insert.
func (s *service) Notify(ctx context.Context, req notification.CreateNotificationRequest) error {
	if !req.Type.IsValid() {
		return notification.ErrInvalidNotificationType
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		s.persist(ctx, -1, []notification.CreateNotificationRequest{req})
		return nil
	}
}

// NotifyAdmins fans req out to every active admin.
func (s *service) NotifyAdmins(ctx context.Context, req notification.CreateNotificationRequest) error {
	adminIDs, err := s.employees.ListAdminIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	for _, id := range adminIDs {
		r := req
		r.RecipientID = id
		if err := s.Notify(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// GetNotifications retrieves paginated notifications for a user
func (s *service) GetNotifications(ctx context.Context, req notification.ListNotificationsRequest) (*notification.NotificationListResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, req.UserID, page, pageSize, req.UnreadOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *service) MarkAsRead(ctx context.Context, userID string, notificationID string) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Subscribe opens a push stream of the user's new notifications.
func (s *service) Subscribe(userID string) (<-chan sse.Event, func()) {
	return s.hub.Subscribe(userID)
}

// Stop flushes pending notifications and waits for the workers.
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
	slog.Info("notification service stopped")
}
