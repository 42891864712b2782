package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, employee_id, date, status, check_in, check_out,
	auto_checked_out, marked_by, notes, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	var status string
	err := row.Scan(
		&a.ID, &a.EmployeeID, &a.Date, &status, &a.CheckIn, &a.CheckOut,
		&a.AutoCheckedOut, &a.MarkedBy, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	a.Status = attendance.Status(status)
	return a, err
}

func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (employee_id, date, status, check_in, marked_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			check_in = EXCLUDED.check_in,
			notes = EXCLUDED.notes,
			updated_at = NOW()
		RETURNING ` + attendanceColumns

	saved, err := scanAttendance(q.QueryRow(ctx, query,
		a.EmployeeID, a.Date, string(a.Status), a.CheckIn, a.MarkedBy, a.Notes,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}
	return saved, nil
}

func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2`

	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &a, nil
}

func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("a.date >= $%d", argIdx))
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("a.date <= $%d", argIdx))
		args = append(args, *filter.To)
		argIdx++
	}

	query := `
		SELECT a.id, a.employee_id, a.date, a.status, a.check_in, a.check_out,
			a.auto_checked_out, a.marked_by, a.notes, a.created_at, a.updated_at, u.name
		FROM attendances a
		JOIN users u ON u.id = a.employee_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.date DESC, u.name ASC"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		var a attendance.Attendance
		var status, name string
		if err := rows.Scan(
			&a.ID, &a.EmployeeID, &a.Date, &status, &a.CheckIn, &a.CheckOut,
			&a.AutoCheckedOut, &a.MarkedBy, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &name,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		a.Status = attendance.Status(status)
		a.EmployeeName = &name
		records = append(records, a)
	}
	return records, rows.Err()
}

func (r *attendanceRepositoryImpl) AutoCheckout(ctx context.Context, day time.Time, checkOut time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	// check_out IS NULL keeps repeated sweeps of the same day a no-op.
	query := `
		UPDATE attendances
		SET check_out = $2, auto_checked_out = TRUE, updated_at = NOW()
		WHERE date = $1
			AND check_out IS NULL
			AND status IN ('present', 'late')
		RETURNING ` + attendanceColumns

	rows, err := q.Query(ctx, query, day, checkOut)
	if err != nil {
		return nil, fmt.Errorf("failed to auto checkout: %w", err)
	}
	defer rows.Close()

	updated := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		updated = append(updated, a)
	}
	return updated, rows.Err()
}
