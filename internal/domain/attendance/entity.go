package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half-day"
	StatusLate    Status = "late"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusHalfDay, StatusLate:
		return true
	}
	return false
}

// CountsAsPresent reports whether the status is eligible for check-in and
// the automatic check-out sweep.
func (s Status) CountsAsPresent() bool {
	return s == StatusPresent || s == StatusLate
}

type Attendance struct {
	ID             string
	EmployeeID     string
	Date           time.Time
	Status         Status
	CheckIn        *time.Time
	CheckOut       *time.Time
	AutoCheckedOut bool
	MarkedBy       string
	Notes          *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO
	EmployeeName *string
}

// Summary is the classification of attendance records over a date range.
// Late days count as present; a half day contributes 0.5 to DaysPresent.
type Summary struct {
	PresentCount int
	LateCount    int
	HalfDayCount int
	AbsentCount  int
	DaysPresent  decimal.Decimal
}

var half = decimal.NewFromFloat(0.5)

// Summarize classifies records. It does not filter by date; callers pass the
// records of the range they care about.
func Summarize(records []Attendance) Summary {
	var s Summary
	for _, r := range records {
		switch r.Status {
		case StatusPresent:
			s.PresentCount++
		case StatusLate:
			s.PresentCount++
			s.LateCount++
		case StatusHalfDay:
			s.HalfDayCount++
		case StatusAbsent:
			s.AbsentCount++
		}
	}
	s.DaysPresent = decimal.NewFromInt(int64(s.PresentCount)).Add(half.Mul(decimal.NewFromInt(int64(s.HalfDayCount))))
	return s
}
