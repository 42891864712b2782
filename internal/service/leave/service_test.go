package leave

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/notification"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// store keeps employees and leave requests behind one lock, so ApplyApproval
// behaves like the single database transaction it stands in for.
type store struct {
	employee.EmployeeRepository

	mu        sync.Mutex
	employees map[string]employee.Employee
	requests  map[string]leave.LeaveRequest
	seq       int
}

func newStore(emps ...employee.Employee) *store {
	s := &store{employees: make(map[string]employee.Employee), requests: make(map[string]leave.LeaveRequest)}
	for _, e := range emps {
		s.employees[e.ID] = e
	}
	return s
}

func (s *store) GetByID(_ context.Context, id string) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

type leaveRepo struct{ *store }

func (r leaveRepo) Create(_ context.Context, l leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	l.ID = fmt.Sprintf("leave-%d", r.seq)
	r.requests[l.ID] = l
	return l, nil
}

func (r leaveRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return l, nil
}

func (r leaveRepo) List(_ context.Context, f leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []leave.LeaveRequest
	for _, l := range r.requests {
		if f.EmployeeID != "" && l.EmployeeID != f.EmployeeID {
			continue
		}
		if f.Status != nil && l.Status != *f.Status {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (r leaveRepo) ApplyApproval(_ context.Context, cmd leave.ApprovalCommand) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := r.requests[cmd.LeaveID]
	if l.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrAlreadyReviewed
	}
	e := r.employees[cmd.EmployeeID]
	bal := &e.LeaveBalance
	var counter *int
	switch cmd.Type {
	case leave.TypeCasual:
		counter = &bal.Casual
	case leave.TypeSick:
		counter = &bal.Sick
	case leave.TypePaid:
		counter = &bal.Paid
	}
	if *counter < cmd.Days {
		return leave.LeaveRequest{}, leave.ErrInsufficientBalance
	}
	*counter -= cmd.Days

	l.Status = leave.StatusApproved
	l.ReviewedBy = &cmd.ReviewedBy
	l.ReviewedAt = &cmd.ReviewedAt
	l.AdminComment = cmd.Comment
	r.requests[l.ID] = l
	r.employees[e.ID] = e
	return l, nil
}

func (r leaveRepo) ApplyRejection(_ context.Context, cmd leave.RejectionCommand) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l := r.requests[cmd.LeaveID]
	if l.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrAlreadyReviewed
	}
	l.Status = leave.StatusRejected
	l.ReviewedBy = &cmd.ReviewedBy
	l.ReviewedAt = &cmd.ReviewedAt
	l.AdminComment = cmd.Comment
	r.requests[l.ID] = l
	return l, nil
}

func (r leaveRepo) ListApprovedOverlapping(context.Context, string, time.Time, time.Time) ([]leave.LeaveRequest, error) {
	return nil, nil
}

type spyNotifier struct {
	mu       sync.Mutex
	direct   []notification.CreateNotificationRequest
	toAdmins []notification.CreateNotificationRequest
}

func (s *spyNotifier) Notify(_ context.Context, req notification.CreateNotificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direct = append(s.direct, req)
	return nil
}

func (s *spyNotifier) NotifyAdmins(_ context.Context, req notification.CreateNotificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.toAdmins = append(s.toAdmins, req)
	return nil
}

type spyRecorder struct {
	mu      sync.Mutex
	actions []string
}

func (s *spyRecorder) Record(_ context.Context, _ audit.Actor, action string, _ audit.EntityType, _ string, _ audit.Changes) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, action)
}

var (
	ana   = auth.Identity{UserID: "emp-ana", Role: employee.RoleEmployee}
	bo    = auth.Identity{UserID: "emp-bo", Role: employee.RoleEmployee}
	admin = auth.Identity{UserID: "admin-1", Role: employee.RoleAdmin}
)

type fixture struct {
	svc      leave.LeaveService
	store    *store
	notifier *spyNotifier
	recorder *spyRecorder
}

func newFixture() fixture {
	st := newStore(
		employee.Employee{ID: ana.UserID, Name: "Ana", Role: employee.RoleEmployee, IsActive: true, LeaveBalance: employee.DefaultLeaveBalance()},
		employee.Employee{ID: bo.UserID, Name: "Bo", Role: employee.RoleEmployee, IsActive: true, LeaveBalance: employee.DefaultLeaveBalance()},
	)
	n := &spyNotifier{}
	rec := &spyRecorder{}
	svc := NewLeaveService(leaveRepo{st}, st, n, rec, clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)))
	return fixture{svc: svc, store: st, notifier: n, recorder: rec}
}

func (f fixture) request(t *testing.T, who auth.Identity, leaveType, start, end string) leave.LeaveRequestResponse {
	t.Helper()
	resp, err := f.svc.RequestLeave(context.Background(), who, leave.CreateLeaveRequestRequest{
		LeaveType: leaveType,
		StartDate: start,
		EndDate:   end,
		Reason:    "family",
	})
	require.NoError(t, err)
	return resp
}

func TestRequestThenApprove_DeductsCasualBalance(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := f.request(t, ana, "casual", "2024-03-11", "2024-03-13")
	assert.Equal(t, 3, req.DaysRequested)
	assert.Equal(t, "pending", req.Status)
	assert.Equal(t, 12, f.store.employees[ana.UserID].LeaveBalance.Casual)

	require.Len(t, f.notifier.toAdmins, 1)
	assert.Equal(t, "Ana has requested 3 day(s) of casual leave", f.notifier.toAdmins[0].Message)

	comment := "enjoy"
	resp, err := f.svc.ReviewLeave(ctx, admin, leave.ReviewLeaveRequest{ID: req.ID, Action: "approve", Comment: &comment})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)
	require.NotNil(t, resp.ReviewedBy)
	assert.Equal(t, admin.UserID, *resp.ReviewedBy)

	bal := f.store.employees[ana.UserID].LeaveBalance
	assert.Equal(t, employee.LeaveBalance{Casual: 9, Sick: 10, Paid: 15}, bal)

	require.Len(t, f.notifier.direct, 1)
	assert.Equal(t, ana.UserID, f.notifier.direct[0].RecipientID)
	assert.Equal(t, "Your casual leave request for 3 day(s) has been approved: enjoy", f.notifier.direct[0].Message)

	assert.Equal(t, []string{audit.ActionLeaveRequested, audit.ActionLeaveApproved}, f.recorder.actions)
}

func TestRequestLeave_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.RequestLeave(ctx, ana, leave.CreateLeaveRequestRequest{
		LeaveType: "sick", StartDate: "2024-03-01", EndDate: "2024-03-11", Reason: "flu",
	})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	_, err = f.svc.RequestLeave(ctx, admin, leave.CreateLeaveRequestRequest{
		LeaveType: "sick", StartDate: "2024-03-01", EndDate: "2024-03-01", Reason: "flu",
	})
	assert.ErrorIs(t, err, leave.ErrEmployeesOnly)

	_, err = f.svc.RequestLeave(ctx, ana, leave.CreateLeaveRequestRequest{
		LeaveType: "vacation", StartDate: "2024-03-05", EndDate: "2024-03-01",
	})
	assert.Error(t, err)

	assert.Empty(t, f.store.requests)
	assert.Empty(t, f.notifier.toAdmins)
}

func TestReviewLeave_Finality(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	req := f.request(t, ana, "paid", "2024-03-04", "2024-03-05")

	resp, err := f.svc.ReviewLeave(ctx, admin, leave.ReviewLeaveRequest{ID: req.ID, Action: "reject"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Equal(t, "Your paid leave request for 2 day(s) has been rejected", f.notifier.direct[0].Message)

	_, err = f.svc.ReviewLeave(ctx, admin, leave.ReviewLeaveRequest{ID: req.ID, Action: "approve"})
	assert.ErrorIs(t, err, leave.ErrAlreadyReviewed)
	assert.Equal(t, 15, f.store.employees[ana.UserID].LeaveBalance.Paid)
}

func TestReviewLeave_RecheckBalanceOnApproval(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := f.request(t, ana, "casual", "2024-03-04", "2024-03-11")
	second := f.request(t, ana, "casual", "2024-03-18", "2024-03-22")

	_, err := f.svc.ReviewLeave(ctx, admin, leave.ReviewLeaveRequest{ID: first.ID, Action: "approve"})
	require.NoError(t, err)
	assert.Equal(t, 4, f.store.employees[ana.UserID].LeaveBalance.Casual)

	_, err = f.svc.ReviewLeave(ctx, admin, leave.ReviewLeaveRequest{ID: second.ID, Action: "approve"})
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	got, err := f.svc.Get(ctx, admin, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, 4, f.store.employees[ana.UserID].LeaveBalance.Casual)
}

func TestReviewLeave_ConcurrentApprovalsNeverOverdraw(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ids := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		start := fmt.Sprintf("2024-04-%02d", 1+i*7)
		end := fmt.Sprintf("2024-04-%02d", 5+i*7)
		ids = append(ids, f.request(t, bo, "sick", start, end).ID)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		approved int
	)
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := f.svc.ReviewLeave(ctx, admin, leave.ReviewLeaveRequest{ID: id, Action: "approve"}); err == nil {
				mu.Lock()
				approved++
				mu.Unlock()
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 2, approved)
	assert.Equal(t, 0, f.store.employees[bo.UserID].LeaveBalance.Sick)
}

func TestListAndGet_Visibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	mine := f.request(t, ana, "casual", "2024-03-04", "2024-03-04")
	theirs := f.request(t, bo, "casual", "2024-03-04", "2024-03-04")

	list, err := f.svc.List(ctx, ana, leave.LeaveRequestFilter{EmployeeID: bo.UserID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	_, err = f.svc.Get(ctx, ana, theirs.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)

	all, err := f.svc.List(ctx, admin, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
