package payroll

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
)

// Period is a calendar month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p Period) WorkingDays() int {
	return calendar.DaysInMonth(p.Month, p.Year)
}

// Range returns the first and last day of the month.
func (p Period) Range() (time.Time, time.Time) {
	return calendar.MonthRange(p.Month, p.Year)
}

func (p Period) String() string {
	return fmt.Sprintf("%d/%d", p.Month, p.Year)
}

type AttendanceBreakdown struct {
	Present int `json:"present"`
	HalfDay int `json:"half_day"`
	Absent  int `json:"absent"`
}

type LeaveBreakdown struct {
	Casual int `json:"casual"`
	Sick   int `json:"sick"`
	Paid   int `json:"paid"`
}

func (l LeaveBreakdown) Total() int {
	return l.Casual + l.Sick + l.Paid
}

// Breakdown is stored as JSONB next to the record.
type Breakdown struct {
	Formula    string              `json:"formula"`
	Attendance AttendanceBreakdown `json:"attendance"`
	Leave      LeaveBreakdown      `json:"leave"`
}

// Value implements driver.Valuer for database storage
func (b Breakdown) Value() (driver.Value, error) {
	return json.Marshal(b)
}

// Scan implements sql.Scanner for database retrieval
func (b *Breakdown) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, b)
	case string:
		return json.Unmarshal([]byte(v), b)
	}
	return errors.New("failed to scan Breakdown: invalid type")
}

// PayrollRecord - monthly pay of one employee
type PayrollRecord struct {
	ID          string
	EmployeeID  string
	PeriodMonth int
	PeriodYear  int
	BaseSalary  decimal.Decimal
	WorkingDays int
	DaysPresent decimal.Decimal
	DaysAbsent  int
	LeaveDays   int
	GrossPay    decimal.Decimal
	Deductions  decimal.Decimal
	NetPay      decimal.Decimal
	Breakdown   Breakdown
	Status      Status
	FinalizedBy *string
	FinalizedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}

func (r PayrollRecord) Period() Period {
	return Period{Month: r.PeriodMonth, Year: r.PeriodYear}
}

func (r PayrollRecord) IsFinalized() bool {
	return r.Status == StatusFinalized
}
