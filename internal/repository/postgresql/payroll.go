package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const payrollColumns = `id, employee_id, period_month, period_year, base_salary, working_days,
	days_present, days_absent, leave_days, gross_pay, deductions, net_pay, breakdown,
	status, finalized_by, finalized_at, created_at, updated_at`

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

func scanPayrollRecord(row pgx.Row, extra ...any) (payroll.PayrollRecord, error) {
	var p payroll.PayrollRecord
	var status string
	dest := []any{
		&p.ID, &p.EmployeeID, &p.PeriodMonth, &p.PeriodYear, &p.BaseSalary, &p.WorkingDays,
		&p.DaysPresent, &p.DaysAbsent, &p.LeaveDays, &p.GrossPay, &p.Deductions, &p.NetPay, &p.Breakdown,
		&status, &p.FinalizedBy, &p.FinalizedAt, &p.CreatedAt, &p.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	p.Status = payroll.Status(status)
	return p, err
}

func (r *payrollRepositoryImpl) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	// A conflicting row yields no RETURNING row instead of an error, so a
	// concurrent generator racing on the same period simply skips it.
	query := `
		INSERT INTO payroll_records (
			employee_id, period_month, period_year, base_salary, working_days,
			days_present, days_absent, leave_days, gross_pay, deductions, net_pay,
			breakdown, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 'draft')
		ON CONFLICT ON CONSTRAINT uk_employee_period DO NOTHING
		RETURNING ` + payrollColumns

	created, err := scanPayrollRecord(q.QueryRow(ctx, query,
		record.EmployeeID, record.PeriodMonth, record.PeriodYear, record.BaseSalary, record.WorkingDays,
		record.DaysPresent, record.DaysAbsent, record.LeaveDays, record.GrossPay, record.Deductions, record.NetPay,
		record.Breakdown,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return created, nil
}

func (r *payrollRepositoryImpl) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.employee_id, p.period_month, p.period_year, p.base_salary, p.working_days,
			p.days_present, p.days_absent, p.leave_days, p.gross_pay, p.deductions, p.net_pay, p.breakdown,
			p.status, p.finalized_by, p.finalized_at, p.created_at, p.updated_at, u.name
		FROM payroll_records p
		JOIN users u ON u.id = p.employee_id
		WHERE p.id = $1`

	var name string
	p, err := scanPayrollRecord(q.QueryRow(ctx, query, id), &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	p.EmployeeName = &name
	return p, nil
}

func (r *payrollRepositoryImpl) ExistsForPeriod(ctx context.Context, employeeID string, period payroll.Period) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM payroll_records
			WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
		)`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, period.Month, period.Year).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payroll record: %w", err)
	}
	return exists, nil
}

func (r *payrollRepositoryImpl) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("p.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_month = $%d", argIdx))
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("p.period_year = $%d", argIdx))
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}

	query := `
		SELECT p.id, p.employee_id, p.period_month, p.period_year, p.base_salary, p.working_days,
			p.days_present, p.days_absent, p.leave_days, p.gross_pay, p.deductions, p.net_pay, p.breakdown,
			p.status, p.finalized_by, p.finalized_at, p.created_at, p.updated_at, u.name
		FROM payroll_records p
		JOIN users u ON u.id = p.employee_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY p.period_year DESC, p.period_month DESC, u.name ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		var name string
		p, err := scanPayrollRecord(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		p.EmployeeName = &name
		records = append(records, p)
	}
	return records, rows.Err()
}

func (r *payrollRepositoryImpl) FinalizeDrafts(ctx context.Context, period payroll.Period, finalizedBy string, finalizedAt time.Time) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records
		SET status = 'finalized', finalized_by = $3, finalized_at = $4, updated_at = $4
		WHERE period_month = $1 AND period_year = $2 AND status = 'draft'
		RETURNING ` + payrollColumns

	rows, err := q.Query(ctx, query, period.Month, period.Year, finalizedBy, finalizedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to finalize payroll records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		p, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}
