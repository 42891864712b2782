package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	// Upsert inserts the record or, on (employee_id, date) conflict, overwrites
	// status, check-in and notes of the existing one.
	Upsert(ctx context.Context, a Attendance) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
	// AutoCheckout sets check_out on present/late records of day that have none
	// and returns the records it changed.
	AutoCheckout(ctx context.Context, day time.Time, checkOut time.Time) ([]Attendance, error)
}
