package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type MarkAttendanceRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *MarkAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !Status(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of present, absent, half-day, late",
		})
	}

	if r.Notes != nil && len(*r.Notes) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: "notes must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AttendanceFilter narrows a listing. Zero values mean no constraint.
type AttendanceFilter struct {
	EmployeeID string
	From       *time.Time
	To         *time.Time
}

// ListAttendanceRequest carries the raw query parameters of a listing.
type ListAttendanceRequest struct {
	EmployeeID string
	From       string
	To         string
}

func (r *ListAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	from, fromOK := validator.IsValidDate(r.From)
	if r.From != "" && !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	to, toOK := validator.IsValidDate(r.To)
	if r.To != "" && !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}
	if fromOK && toOK && from.After(to) {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must not be after to",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Filter converts a validated request.
func (r *ListAttendanceRequest) Filter() AttendanceFilter {
	f := AttendanceFilter{EmployeeID: r.EmployeeID}
	if d, ok := validator.IsValidDate(r.From); ok {
		f.From = &d
	}
	if d, ok := validator.IsValidDate(r.To); ok {
		f.To = &d
	}
	return f
}

type SummaryRequest struct {
	EmployeeID string
	From       string
	To         string
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID != "" && !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}
	from, fromOK := validator.IsValidDate(r.From)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from is required in YYYY-MM-DD format",
		})
	}
	to, toOK := validator.IsValidDate(r.To)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to is required in YYYY-MM-DD format",
		})
	}
	if fromOK && toOK && from.After(to) {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must not be after to",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceResponse struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	EmployeeName   *string    `json:"employee_name,omitempty"`
	Date           string     `json:"date"`
	Status         string     `json:"status"`
	CheckIn        *time.Time `json:"check_in"`
	CheckOut       *time.Time `json:"check_out"`
	AutoCheckedOut bool       `json:"auto_checked_out"`
	MarkedBy       string     `json:"marked_by"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		EmployeeName:   a.EmployeeName,
		Date:           a.Date.Format(validator.DateLayout),
		Status:         string(a.Status),
		CheckIn:        a.CheckIn,
		CheckOut:       a.CheckOut,
		AutoCheckedOut: a.AutoCheckedOut,
		MarkedBy:       a.MarkedBy,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

type SummaryResponse struct {
	EmployeeID   string          `json:"employee_id"`
	From         string          `json:"from"`
	To           string          `json:"to"`
	PresentCount int             `json:"present_count"`
	LateCount    int             `json:"late_count"`
	HalfDayCount int             `json:"half_day_count"`
	AbsentCount  int             `json:"absent_count"`
	DaysPresent  decimal.Decimal `json:"days_present"`
}
