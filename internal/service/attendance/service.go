package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/audit"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/validator"
	"github.com/jonboulle/clockwork"
)

type Config struct {
	// DefaultCheckout is the wall-clock time written by the auto-checkout sweep.
	DefaultCheckout calendar.Clock
	Location        *time.Location
}

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	audit          audit.Recorder
	clock          clockwork.Clock
	cfg            Config
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	recorder audit.Recorder,
	clock clockwork.Clock,
	cfg Config,
) attendance.AttendanceService {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		audit:          recorder,
		clock:          clock,
		cfg:            cfg,
	}
}

// Mark records the status of an employee for a day, overwriting any earlier
// mark of the same day.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, req attendance.MarkAttendanceRequest, markedBy string) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	day, _ := validator.IsValidDate(req.Date)
	status := attendance.Status(req.Status)

	previous, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, day)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var checkIn *time.Time
	if status != attendance.StatusAbsent {
		now := s.clock.Now()
		checkIn = &now
	}

	saved, err := s.attendanceRepo.Upsert(ctx, attendance.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       day,
		Status:     status,
		CheckIn:    checkIn,
		MarkedBy:   markedBy,
		Notes:      req.Notes,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := attendance.ToResponse(saved)

	changes := audit.Changes{After: resp}
	if previous != nil {
		changes.Before = attendance.ToResponse(*previous)
	}
	s.audit.Record(ctx, audit.User(markedBy), audit.ActionAttendanceMarked, audit.EntityAttendance, saved.ID, changes)

	return resp, nil
}

// List returns attendance records. Employees only ever see their own.
func (s *AttendanceServiceImpl) List(ctx context.Context, viewer auth.Identity, filter attendance.AttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if !viewer.IsAdmin() {
		filter.EmployeeID = viewer.UserID
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, attendance.ErrInvalidDateRange
	}

	records, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, attendance.ToResponse(r))
	}
	return resp, nil
}

// Summarize classifies the employee's records in the inclusive range [from, to].
func (s *AttendanceServiceImpl) Summarize(ctx context.Context, employeeID string, from, to time.Time) (attendance.Summary, error) {
	from, to = calendar.DateOf(from), calendar.DateOf(to)
	if from.After(to) {
		return attendance.Summary{}, attendance.ErrInvalidDateRange
	}

	records, err := s.attendanceRepo.List(ctx, attendance.AttendanceFilter{
		EmployeeID: employeeID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return attendance.Summary{}, fmt.Errorf("failed to load attendance for summary: %w", err)
	}

	return attendance.Summarize(records), nil
}

func (s *AttendanceServiceImpl) GetSummary(ctx context.Context, viewer auth.Identity, req attendance.SummaryRequest) (attendance.SummaryResponse, error) {
	if !viewer.IsAdmin() {
		req.EmployeeID = viewer.UserID
	}
	if err := req.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}
	if req.EmployeeID == "" {
		return attendance.SummaryResponse{}, validator.ValidationErrors{{
			Field:   "employee_id",
			Message: "employee_id is required",
		}}
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.SummaryResponse{}, err
	}

	from, _ := validator.IsValidDate(req.From)
	to, _ := validator.IsValidDate(req.To)

	summary, err := s.Summarize(ctx, req.EmployeeID, from, to)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	return attendance.SummaryResponse{
		EmployeeID:   req.EmployeeID,
		From:         req.From,
		To:           req.To,
		PresentCount: summary.PresentCount,
		LateCount:    summary.LateCount,
		HalfDayCount: summary.HalfDayCount,
		AbsentCount:  summary.AbsentCount,
		DaysPresent:  summary.DaysPresent,
	}, nil
}

// AutoCheckout closes every open present/late record of day at the default
// check-out time. Running it again for the same day changes nothing.
func (s *AttendanceServiceImpl) AutoCheckout(ctx context.Context, day time.Time) (int, error) {
	day = calendar.DateOf(day)
	checkOut := s.cfg.DefaultCheckout.On(day, s.cfg.Location)

	updated, err := s.attendanceRepo.AutoCheckout(ctx, day, checkOut)
	if err != nil {
		return 0, err
	}

	for _, a := range updated {
		s.audit.Record(ctx, audit.System(), audit.ActionAttendanceAutoCheckout, audit.EntityAttendance, a.ID, audit.Changes{
			Before: map[string]any{"check_out": nil, "auto_checked_out": false},
			After:  map[string]any{"check_out": a.CheckOut, "auto_checked_out": a.AutoCheckedOut},
		})
	}

	return len(updated), nil
}
