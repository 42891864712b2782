package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/sse"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	notification.Repository

	mu        sync.Mutex
	created   []*notification.Notification
	createErr error
}

func (f *fakeRepo) CreateBatch(_ context.Context, ns []*notification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, ns...)
	return nil
}

func (f *fakeRepo) all() []*notification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*notification.Notification(nil), f.created...)
}

type fakeEmployees struct {
	employee.EmployeeRepository
	adminIDs []string
}

func (f *fakeEmployees) ListAdminIDs(context.Context) ([]string, error) {
	return f.adminIDs, nil
}

func newTestService(repo *fakeRepo, admins ...string) (notification.Service, *sse.Hub, clockwork.FakeClock) {
	hub := sse.NewHub()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	svc := NewNotificationService(repo, &fakeEmployees{adminIDs: admins}, hub, clock, Config{WorkerCount: 1})
	return svc, hub, clock
}

func TestNotify_PersistsAndPublishesOnStop(t *testing.T) {
	repo := &fakeRepo{}
	svc, hub, clock := newTestService(repo)

	stream, cleanup := hub.Subscribe("emp-1")
	defer cleanup()

	svc.Start(context.Background())
	require.NoError(t, svc.Notify(context.Background(), notification.CreateNotificationRequest{
		RecipientID:   "emp-1",
		Type:          notification.TypeLeave,
		Title:         "Leave Approved",
		Message:       "Your casual leave request for 3 day(s) has been approved",
		RelatedEntity: &notification.RelatedEntity{EntityType: "leave", EntityID: "leave-1"},
	}))
	svc.Stop()

	created := repo.all()
	require.Len(t, created, 1)
	assert.Equal(t, "emp-1", created[0].RecipientID)
	assert.Equal(t, clock.Now(), created[0].CreatedAt)
	assert.NotEmpty(t, created[0].ID)
	assert.False(t, created[0].IsRead)

	select {
	case ev := <-stream:
		assert.Equal(t, "notification", ev.Name)
		resp, ok := ev.Data.(notification.NotificationResponse)
		require.True(t, ok)
		assert.Equal(t, "Leave Approved", resp.Title)
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestNotifyAdmins_FansOut(t *testing.T) {
	repo := &fakeRepo{}
	svc, _, _ := newTestService(repo, "admin-1", "admin-2")

	svc.Start(context.Background())
	require.NoError(t, svc.NotifyAdmins(context.Background(), notification.CreateNotificationRequest{
		Type:    notification.TypeLeave,
		Title:   "New Leave Request",
		Message: "Jane has requested 2 day(s) of sick leave",
	}))
	svc.Stop()

	created := repo.all()
	require.Len(t, created, 2)
	recipients := []string{created[0].RecipientID, created[1].RecipientID}
	assert.ElementsMatch(t, []string{"admin-1", "admin-2"}, recipients)
}

func TestNotify_RejectsUnknownType(t *testing.T) {
	svc, _, _ := newTestService(&fakeRepo{})

	err := svc.Notify(context.Background(), notification.CreateNotificationRequest{
		RecipientID: "emp-1",
		Type:        "sms",
	})
	assert.ErrorIs(t, err, notification.ErrInvalidNotificationType)
}

func TestNotify_FlushFailureIsSwallowed(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("db down")}
	svc, _, _ := newTestService(repo)

	svc.Start(context.Background())
	require.NoError(t, svc.Notify(context.Background(), notification.CreateNotificationRequest{
		RecipientID: "emp-1",
		Type:        notification.TypeSystem,
		Title:       "x",
	}))
	svc.Stop()

	assert.Empty(t, repo.all())
}
