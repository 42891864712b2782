package payroll

import (
	"context"
	"time"
)

type PayrollRepository interface {
	// Create fails with ErrPayrollRecordAlreadyExists when the employee already
	// has a record for the period.
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	ExistsForPeriod(ctx context.Context, employeeID string, period Period) (bool, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, error)
	// FinalizeDrafts flips every draft of the period in one statement and
	// returns the finalized records.
	FinalizeDrafts(ctx context.Context, period Period, finalizedBy string, finalizedAt time.Time) ([]PayrollRecord, error)
}
