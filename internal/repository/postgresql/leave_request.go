package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `id, employee_id, leave_type, start_date, end_date, reason, status,
	days_requested, reviewed_by, reviewed_at, admin_comment, created_at, updated_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

func scanLeaveRequest(row pgx.Row, extra ...any) (leave.LeaveRequest, error) {
	var l leave.LeaveRequest
	var leaveType, status string
	dest := []any{
		&l.ID, &l.EmployeeID, &leaveType, &l.StartDate, &l.EndDate, &l.Reason, &status,
		&l.DaysRequested, &l.ReviewedBy, &l.ReviewedAt, &l.AdminComment, &l.CreatedAt, &l.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	l.Type = leave.Type(leaveType)
	l.Status = leave.Status(status)
	return l, err
}

// balanceColumn maps a leave type to its counter on users. The result is
// interpolated into SQL, so only known columns may come out of here.
func balanceColumn(t leave.Type) (string, error) {
	switch t {
	case leave.TypeCasual:
		return "casual_leave_balance", nil
	case leave.TypeSick:
		return "sick_leave_balance", nil
	case leave.TypePaid:
		return "paid_leave_balance", nil
	}
	return "", fmt.Errorf("unknown leave type %q", t)
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, reason, status, days_requested)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6)
		RETURNING ` + leaveRequestColumns

	created, err := scanLeaveRequest(q.QueryRow(ctx, query,
		req.EmployeeID, string(req.Type), req.StartDate, req.EndDate, req.Reason, req.DaysRequested,
	))
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.reason, lr.status,
			lr.days_requested, lr.reviewed_by, lr.reviewed_at, lr.admin_comment, lr.created_at, lr.updated_at,
			u.name
		FROM leave_requests lr
		JOIN users u ON u.id = lr.employee_id
		WHERE lr.id = $1`

	var name string
	l, err := scanLeaveRequest(q.QueryRow(ctx, query, id), &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	l.EmployeeName = &name
	return l, nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("lr.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, string(*filter.Status))
		argIdx++
	}

	query := `
		SELECT lr.id, lr.employee_id, lr.leave_type, lr.start_date, lr.end_date, lr.reason, lr.status,
			lr.days_requested, lr.reviewed_by, lr.reviewed_at, lr.admin_comment, lr.created_at, lr.updated_at,
			u.name
		FROM leave_requests lr
		JOIN users u ON u.id = lr.employee_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY lr.created_at DESC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		var name string
		l, err := scanLeaveRequest(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		l.EmployeeName = &name
		requests = append(requests, l)
	}
	return requests, rows.Err()
}

func (r *leaveRequestRepositoryImpl) ApplyApproval(ctx context.Context, cmd leave.ApprovalCommand) (leave.LeaveRequest, error) {
	column, err := balanceColumn(cmd.Type)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	var approved leave.LeaveRequest
	err = WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		approveQuery := `
			UPDATE leave_requests
			SET status = 'approved', reviewed_by = $2, reviewed_at = $3, admin_comment = $4, updated_at = $3
			WHERE id = $1 AND status = 'pending'
			RETURNING ` + leaveRequestColumns

		var err error
		approved, err = scanLeaveRequest(tx.QueryRow(ctx, approveQuery,
			cmd.LeaveID, cmd.ReviewedBy, cmd.ReviewedAt, cmd.Comment,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return leave.ErrAlreadyReviewed
			}
			return fmt.Errorf("failed to approve leave request: %w", err)
		}

		deductQuery := fmt.Sprintf(`
			UPDATE users
			SET %[1]s = %[1]s - $2, updated_at = NOW()
			WHERE id = $1 AND %[1]s >= $2`, column)

		tag, err := tx.Exec(ctx, deductQuery, cmd.EmployeeID, cmd.Days)
		if err != nil {
			return fmt.Errorf("failed to deduct leave balance: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return leave.ErrInsufficientBalance
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return approved, nil
}

func (r *leaveRequestRepositoryImpl) ApplyRejection(ctx context.Context, cmd leave.RejectionCommand) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = 'rejected', reviewed_by = $2, reviewed_at = $3, admin_comment = $4, updated_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + leaveRequestColumns

	rejected, err := scanLeaveRequest(q.QueryRow(ctx, query,
		cmd.LeaveID, cmd.ReviewedBy, cmd.ReviewedAt, cmd.Comment,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrAlreadyReviewed
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to reject leave request: %w", err)
	}
	return rejected, nil
}

func (r *leaveRequestRepositoryImpl) ListApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
			AND status = 'approved'
			AND start_date <= $3
			AND end_date >= $2
		ORDER BY start_date ASC`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}
	defer rows.Close()

	requests := []leave.LeaveRequest{}
	for rows.Next() {
		l, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, l)
	}
	return requests, rows.Err()
}
