package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
)

type PayrollService interface {
	GeneratePayroll(ctx context.Context, actor auth.Identity, req PeriodRequest) (GeneratePayrollResponse, error)
	FinalizePayroll(ctx context.Context, actor auth.Identity, req PeriodRequest) (FinalizePayrollResponse, error)
	List(ctx context.Context, viewer auth.Identity, filter PayrollFilter) ([]PayrollRecordResponse, error)
	Get(ctx context.Context, viewer auth.Identity, id string) (PayrollRecordResponse, error)
}
