package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/calendar"
)

type Type string

const (
	TypeCasual Type = "casual"
	TypeSick   Type = "sick"
	TypePaid   Type = "paid"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeCasual, TypeSick, TypePaid:
		return true
	}
	return false
}

// Available returns the remaining balance of this leave type.
func (t Type) Available(b employee.LeaveBalance) int {
	switch t {
	case TypeCasual:
		return b.Casual
	case TypeSick:
		return b.Sick
	case TypePaid:
		return b.Paid
	}
	return 0
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

type LeaveRequest struct {
	ID            string
	EmployeeID    string
	Type          Type
	StartDate     time.Time
	EndDate       time.Time
	Reason        string
	Status        Status
	DaysRequested int
	ReviewedBy    *string
	ReviewedAt    *time.Time
	AdminComment  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Relationships (for responses)
	EmployeeName *string
}

func (l LeaveRequest) IsPending() bool {
	return l.Status == StatusPending
}

// DaysBetween counts the inclusive span of a leave.
func DaysBetween(start, end time.Time) int {
	return calendar.InclusiveDays(start, end)
}

// ApprovalCommand is applied atomically: the pending request flips to
// approved and the employee's balance of Type drops by Days, or neither.
type ApprovalCommand struct {
	LeaveID    string
	EmployeeID string
	Type       Type
	Days       int
	ReviewedBy string
	ReviewedAt time.Time
	Comment    *string
}

type RejectionCommand struct {
	LeaveID    string
	ReviewedBy string
	ReviewedAt time.Time
	Comment    *string
}
