package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/attendance"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attendanceColumnNames = []string{
	"id", "employee_id", "date", "status", "check_in", "check_out",
	"auto_checked_out", "marked_by", "notes", "created_at", "updated_at",
}

func TestAttendanceRepository_Upsert(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2024, 3, 4, 8, 55, 0, 0, time.UTC)
	in := attendance.Attendance{
		EmployeeID: "emp-1",
		Date:       day,
		Status:     attendance.StatusLate,
		CheckIn:    &checkIn,
		MarkedBy:   "admin-1",
	}

	mock.ExpectQuery("ON CONFLICT \\(employee_id, date\\) DO UPDATE").
		WithArgs("emp-1", day, "late", &checkIn, "admin-1", in.Notes).
		WillReturnRows(pgxmock.NewRows(attendanceColumnNames).AddRow(
			"att-1", "emp-1", day, "late", &checkIn, nil,
			false, "admin-1", nil, checkIn, checkIn,
		))

	got, err := repo.Upsert(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "att-1", got.ID)
	assert.Equal(t, attendance.StatusLate, got.Status)
	assert.Nil(t, got.CheckOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_GetByEmployeeAndDate_Missing(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM attendances WHERE employee_id = \\$1 AND date = \\$2").
		WithArgs("emp-1", day).
		WillReturnRows(pgxmock.NewRows(attendanceColumnNames))

	got, err := repo.GetByEmployeeAndDate(context.Background(), "emp-1", day)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepository_AutoCheckout(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewAttendanceRepository(db)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	checkIn := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 3, 4, 18, 0, 0, 0, time.UTC)

	mock.ExpectQuery("check_out IS NULL\\s+AND status IN \\('present', 'late'\\)").
		WithArgs(day, checkOut).
		WillReturnRows(pgxmock.NewRows(attendanceColumnNames).AddRow(
			"att-1", "emp-1", day, "present", &checkIn, &checkOut,
			true, "admin-1", nil, checkIn, checkOut,
		))

	got, err := repo.AutoCheckout(context.Background(), day, checkOut)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].AutoCheckedOut)
	require.NotNil(t, got[0].CheckOut)
	assert.Equal(t, checkOut, *got[0].CheckOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}
