package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// PeriodRequest is the body of generate and finalize.
type PeriodRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r *PeriodRequest) Period() Period {
	return Period{Month: r.Month, Year: r.Year}
}

type PayrollFilter struct {
	EmployeeID string
	Month      *int
	Year       *int
	Status     *Status
}

type PayrollRecordResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	BaseSalary   decimal.Decimal `json:"base_salary"`
	WorkingDays  int             `json:"working_days"`
	DaysPresent  decimal.Decimal `json:"days_present"`
	DaysAbsent   int             `json:"days_absent"`
	LeaveDays    int             `json:"leave_days"`
	GrossPay     decimal.Decimal `json:"gross_pay"`
	Deductions   decimal.Decimal `json:"deductions"`
	NetPay       decimal.Decimal `json:"net_pay"`
	Breakdown    Breakdown       `json:"breakdown"`
	Status       string          `json:"status"`
	FinalizedBy  *string         `json:"finalized_by,omitempty"`
	FinalizedAt  *time.Time      `json:"finalized_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func ToResponse(r PayrollRecord) PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Month:        r.PeriodMonth,
		Year:         r.PeriodYear,
		BaseSalary:   r.BaseSalary,
		WorkingDays:  r.WorkingDays,
		DaysPresent:  r.DaysPresent,
		DaysAbsent:   r.DaysAbsent,
		LeaveDays:    r.LeaveDays,
		GrossPay:     r.GrossPay,
		Deductions:   r.Deductions,
		NetPay:       r.NetPay,
		Breakdown:    r.Breakdown,
		Status:       string(r.Status),
		FinalizedBy:  r.FinalizedBy,
		FinalizedAt:  r.FinalizedAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type GeneratePayrollResponse struct {
	Period    Period                  `json:"period"`
	Generated int                     `json:"generated"`
	Records   []PayrollRecordResponse `json:"records"`
}

type FinalizePayrollResponse struct {
	Period      Period                  `json:"period"`
	Finalized   int                     `json:"finalized"`
	FinalizedAt time.Time               `json:"finalized_at"`
	Records     []PayrollRecordResponse `json:"records"`
}
