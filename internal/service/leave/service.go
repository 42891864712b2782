package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/validator"
	"github.com/jonboulle/clockwork"
)

type LeaveServiceImpl struct {
	leaveRepo    leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Notifier
	audit        audit.Recorder
	clock        clockwork.Clock
}

func NewLeaveService(
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Notifier,
	recorder audit.Recorder,
	clock clockwork.Clock,
) leave.LeaveService {
	return &LeaveServiceImpl{
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		audit:        recorder,
		clock:        clock,
	}
}

// RequestLeave files a pending request. The balance is checked but not
// touched; deduction happens on approval.
func (s *LeaveServiceImpl) RequestLeave(ctx context.Context, requester auth.Identity, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if requester.IsAdmin() {
		return leave.LeaveRequestResponse{}, leave.ErrEmployeesOnly
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, requester.UserID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !emp.IsActive {
		return leave.LeaveRequestResponse{}, employee.ErrEmployeeInactive
	}

	leaveType := leave.Type(req.LeaveType)
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	days := leave.DaysBetween(start, end)

	if leaveType.Available(emp.LeaveBalance) < days {
		return leave.LeaveRequestResponse{}, leave.ErrInsufficientBalance
	}

	created, err := s.leaveRepo.Create(ctx, leave.LeaveRequest{
		EmployeeID:    emp.ID,
		Type:          leaveType,
		StartDate:     start,
		EndDate:       end,
		Reason:        req.Reason,
		Status:        leave.StatusPending,
		DaysRequested: days,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	created.EmployeeName = &emp.Name

	resp := leave.ToResponse(created)
	s.audit.Record(ctx, audit.User(requester.UserID), audit.ActionLeaveRequested, audit.EntityLeave, created.ID, audit.Changes{After: resp})

	if err := s.notifier.NotifyAdmins(ctx, notification.CreateNotificationRequest{
		Type:          notification.TypeLeave,
		Title:         "New Leave Request",
		Message:       fmt.Sprintf("%s has requested %d day(s) of %s leave", emp.Name, days, leaveType),
		RelatedEntity: &notification.RelatedEntity{EntityType: string(audit.EntityLeave), EntityID: created.ID},
	}); err != nil {
		slog.Error("failed to notify admins of leave request", "leave_id", created.ID, "error", err)
	}

	return resp, nil
}

// ReviewLeave moves a pending request to approved or rejected. Approval
// deducts the balance in the same transaction as the status change.
func (s *LeaveServiceImpl) ReviewLeave(ctx context.Context, reviewer auth.Identity, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	current, err := s.leaveRepo.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !current.IsPending() {
		return leave.LeaveRequestResponse{}, leave.ErrAlreadyReviewed
	}

	now := s.clock.Now()
	var (
		reviewed leave.LeaveRequest
		action   string
	)

	switch leave.Action(req.Action) {
	case leave.ActionApprove:
		emp, err := s.employeeRepo.GetByID(ctx, current.EmployeeID)
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		if current.Type.Available(emp.LeaveBalance) < current.DaysRequested {
			return leave.LeaveRequestResponse{}, leave.ErrInsufficientBalance
		}

		reviewed, err = s.leaveRepo.ApplyApproval(ctx, leave.ApprovalCommand{
			LeaveID:    current.ID,
			EmployeeID: current.EmployeeID,
			Type:       current.Type,
			Days:       current.DaysRequested,
			ReviewedBy: reviewer.UserID,
			ReviewedAt: now,
			Comment:    req.Comment,
		})
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		action = audit.ActionLeaveApproved

	case leave.ActionReject:
		reviewed, err = s.leaveRepo.ApplyRejection(ctx, leave.RejectionCommand{
			LeaveID:    current.ID,
			ReviewedBy: reviewer.UserID,
			ReviewedAt: now,
			Comment:    req.Comment,
		})
		if err != nil {
			return leave.LeaveRequestResponse{}, err
		}
		action = audit.ActionLeaveRejected
	}

	if reviewed.EmployeeName == nil {
		reviewed.EmployeeName = current.EmployeeName
	}
	resp := leave.ToResponse(reviewed)

	s.audit.Record(ctx, audit.User(reviewer.UserID), action, audit.EntityLeave, reviewed.ID, audit.Changes{
		Before: leave.ToResponse(current),
		After:  resp,
	})

	if err := s.notifier.Notify(ctx, reviewNotification(reviewed)); err != nil {
		slog.Error("failed to notify employee of leave review", "leave_id", reviewed.ID, "error", err)
	}

	return resp, nil
}

func reviewNotification(l leave.LeaveRequest) notification.CreateNotificationRequest {
	verb := "approved"
	if l.Status == leave.StatusRejected {
		verb = "rejected"
	}

	msg := fmt.Sprintf("Your %s leave request for %d day(s) has been %s", l.Type, l.DaysRequested, verb)
	if l.AdminComment != nil && *l.AdminComment != "" {
		msg += ": " + *l.AdminComment
	}

	title := "Leave Request Approved"
	if verb == "rejected" {
		title = "Leave Request Rejected"
	}

	return notification.CreateNotificationRequest{
		RecipientID:   l.EmployeeID,
		Type:          notification.TypeLeave,
		Title:         title,
		Message:       msg,
		RelatedEntity: &notification.RelatedEntity{EntityType: string(audit.EntityLeave), EntityID: l.ID},
	}
}

func (s *LeaveServiceImpl) List(ctx context.Context, viewer auth.Identity, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if !viewer.IsAdmin() {
		filter.EmployeeID = viewer.UserID
	}

	requests, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, leave.ToResponse(r))
	}
	return resp, nil
}

// Get returns a request. Another employee's request reads as not found.
func (s *LeaveServiceImpl) Get(ctx context.Context, viewer auth.Identity, id string) (leave.LeaveRequestResponse, error) {
	l, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if !viewer.IsAdmin() && l.EmployeeID != viewer.UserID {
		return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
	}
	return leave.ToResponse(l), nil
}
