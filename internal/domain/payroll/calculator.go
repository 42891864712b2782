package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// CalculatePay prorates base over the working days of the month. Amounts are
// rounded half away from zero to two places; deductions are always zero.
func CalculatePay(base decimal.Decimal, workingDays int, daysPresent decimal.Decimal) (gross, deductions, net decimal.Decimal) {
	deductions = decimal.Zero
	if workingDays <= 0 {
		return decimal.Zero, deductions, decimal.Zero
	}
	gross = base.Mul(daysPresent).Div(decimal.NewFromInt(int64(workingDays))).Round(2)
	net = gross.Sub(deductions).Round(2)
	return gross, deductions, net
}

func Formula(base decimal.Decimal, workingDays int, daysPresent decimal.Decimal) string {
	return fmt.Sprintf("(%s / %d) × %s", base.String(), workingDays, daysPresent.String())
}

// NewDraft builds the draft record of e for period.
func NewDraft(e employee.Employee, period Period, summary attendance.Summary, leaves LeaveBreakdown) PayrollRecord {
	workingDays := period.WorkingDays()
	gross, deductions, net := CalculatePay(e.BaseSalary, workingDays, summary.DaysPresent)

	return PayrollRecord{
		EmployeeID:  e.ID,
		PeriodMonth: period.Month,
		PeriodYear:  period.Year,
		BaseSalary:  e.BaseSalary,
		WorkingDays: workingDays,
		DaysPresent: summary.DaysPresent,
		DaysAbsent:  summary.AbsentCount,
		LeaveDays:   leaves.Total(),
		GrossPay:    gross,
		Deductions:  deductions,
		NetPay:      net,
		Breakdown: Breakdown{
			Formula: Formula(e.BaseSalary, workingDays, summary.DaysPresent),
			Attendance: AttendanceBreakdown{
				Present: summary.PresentCount,
				HalfDay: summary.HalfDayCount,
				Absent:  summary.AbsentCount,
			},
			Leave: leaves,
		},
		Status: StatusDraft,
	}
}
