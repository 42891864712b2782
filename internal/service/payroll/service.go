package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/payroll"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// AttendanceSummarizer is the slice of the attendance service payroll reads.
type AttendanceSummarizer interface {
	Summarize(ctx context.Context, employeeID string, from, to time.Time) (attendance.Summary, error)
}

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	leaveRepo    leave.LeaveRequestRepository
	attendance   AttendanceSummarizer
	notifier     notification.Notifier
	audit        audit.Recorder
	clock        clockwork.Clock

	generating singleflight.Group
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRequestRepository,
	attendance AttendanceSummarizer,
	notifier notification.Notifier,
	recorder audit.Recorder,
	clock clockwork.Clock,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		leaveRepo:    leaveRepo,
		attendance:   attendance,
		notifier:     notifier,
		audit:        recorder,
		clock:        clock,
	}
}

// GeneratePayroll creates draft records for every active employee that has
// none for the period yet and returns only the records it created. Calls for
// the same period that overlap in time share one run.
func (s *PayrollServiceImpl) GeneratePayroll(ctx context.Context, actor auth.Identity, req payroll.PeriodRequest) (payroll.GeneratePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}
	period := req.Period()

	// The run is shared by every caller of the period; one caller leaving must
	// not fail the others.
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := s.generating.Do(period.String(), func() (interface{}, error) {
		return s.generate(runCtx, actor, period)
	})
	if err != nil {
		return payroll.GeneratePayrollResponse{}, err
	}
	if shared {
		slog.Debug("payroll generation shared with concurrent call", "period", period.String())
	}

	created := v.([]payroll.PayrollRecord)
	resp := payroll.GeneratePayrollResponse{
		Period:    period,
		Generated: len(created),
		Records:   make([]payroll.PayrollRecordResponse, 0, len(created)),
	}
	for _, r := range created {
		resp.Records = append(resp.Records, payroll.ToResponse(r))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) generate(ctx context.Context, actor auth.Identity, period payroll.Period) ([]payroll.PayrollRecord, error) {
	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}

	from, to := period.Range()
	created := []payroll.PayrollRecord{}

	for _, emp := range employees {
		exists, err := s.payrollRepo.ExistsForPeriod(ctx, emp.ID, period)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing payroll record: %w", err)
		}
		if exists {
			continue
		}

		summary, err := s.attendance.Summarize(ctx, emp.ID, from, to)
		if err != nil {
			return nil, err
		}

		leaves, err := s.leaveBreakdown(ctx, emp.ID, from, to)
		if err != nil {
			return nil, err
		}

		record, err := s.payrollRepo.Create(ctx, payroll.NewDraft(emp, period, summary, leaves))
		if err != nil {
			// Lost a race with another instance; that record is theirs to report.
			if errors.Is(err, payroll.ErrPayrollRecordAlreadyExists) {
				continue
			}
			return nil, fmt.Errorf("failed to create payroll record for employee %s: %w", emp.ID, err)
		}
		name := emp.Name
		record.EmployeeName = &name

		s.audit.Record(ctx, audit.User(actor.UserID), audit.ActionPayrollGenerated, audit.EntityPayroll, record.ID,
			audit.Changes{After: payroll.ToResponse(record)})

		created = append(created, record)
	}

	return created, nil
}

// leaveBreakdown sums approved leave touching [from, to] per type. A leave
// that straddles the month boundary counts with all its days.
func (s *PayrollServiceImpl) leaveBreakdown(ctx context.Context, employeeID string, from, to time.Time) (payroll.LeaveBreakdown, error) {
	approved, err := s.leaveRepo.ListApprovedOverlapping(ctx, employeeID, from, to)
	if err != nil {
		return payroll.LeaveBreakdown{}, fmt.Errorf("failed to get approved leaves: %w", err)
	}

	var b payroll.LeaveBreakdown
	for _, l := range approved {
		switch l.Type {
		case leave.TypeCasual:
			b.Casual += l.DaysRequested
		case leave.TypeSick:
			b.Sick += l.DaysRequested
		case leave.TypePaid:
			b.Paid += l.DaysRequested
		}
	}
	return b, nil
}

// FinalizePayroll locks every draft of the period with one shared timestamp.
func (s *PayrollServiceImpl) FinalizePayroll(ctx context.Context, actor auth.Identity, req payroll.PeriodRequest) (payroll.FinalizePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}
	period := req.Period()
	finalizedAt := s.clock.Now()

	records, err := s.payrollRepo.FinalizeDrafts(ctx, period, actor.UserID, finalizedAt)
	if err != nil {
		return payroll.FinalizePayrollResponse{}, err
	}
	if len(records) == 0 {
		return payroll.FinalizePayrollResponse{}, payroll.ErrNoDraftPayroll
	}

	resp := payroll.FinalizePayrollResponse{
		Period:      period,
		Finalized:   len(records),
		FinalizedAt: finalizedAt,
		Records:     make([]payroll.PayrollRecordResponse, 0, len(records)),
	}

	for _, r := range records {
		after := payroll.ToResponse(r)
		resp.Records = append(resp.Records, after)

		s.audit.Record(ctx, audit.User(actor.UserID), audit.ActionPayrollFinalized, audit.EntityPayroll, r.ID, audit.Changes{
			Before: map[string]any{"status": payroll.StatusDraft},
			After:  after,
		})

		if err := s.notifier.Notify(ctx, notification.CreateNotificationRequest{
			RecipientID:   r.EmployeeID,
			Type:          notification.TypePayroll,
			Title:         "Payroll Finalized",
			Message:       fmt.Sprintf("Your payroll for %s has been finalized. Net Pay: %s", period, r.NetPay.StringFixed(2)),
			RelatedEntity: &notification.RelatedEntity{EntityType: string(audit.EntityPayroll), EntityID: r.ID},
		}); err != nil {
			slog.Error("failed to notify employee of finalized payroll", "payroll_id", r.ID, "error", err)
		}
	}

	return resp, nil
}

// List returns payroll records. Employees see only their own finalized ones.
func (s *PayrollServiceImpl) List(ctx context.Context, viewer auth.Identity, filter payroll.PayrollFilter) ([]payroll.PayrollRecordResponse, error) {
	if !viewer.IsAdmin() {
		finalized := payroll.StatusFinalized
		filter.EmployeeID = viewer.UserID
		filter.Status = &finalized
	}

	records, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, payroll.ToResponse(r))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) Get(ctx context.Context, viewer auth.Identity, id string) (payroll.PayrollRecordResponse, error) {
	r, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	if !viewer.IsAdmin() && (r.EmployeeID != viewer.UserID || !r.IsFinalized()) {
		return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
	}
	return payroll.ToResponse(r), nil
}
