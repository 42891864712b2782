package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/calendar"
	"github.com/jonboulle/clockwork"
)

// AutoCheckouter closes the open attendance records of a day.
type AutoCheckouter interface {
	AutoCheckout(ctx context.Context, day time.Time) (int, error)
}

type AttendanceJobs struct {
	attendance AutoCheckouter
	clock      clockwork.Clock
	location   *time.Location
	checkoutAt calendar.Clock
	interval   time.Duration
}

func NewAttendanceJobs(attendance AutoCheckouter, clock clockwork.Clock, location *time.Location, checkoutAt calendar.Clock, interval time.Duration) *AttendanceJobs {
	return &AttendanceJobs{
		attendance: attendance,
		clock:      clock,
		location:   location,
		checkoutAt: checkoutAt,
		interval:   interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("attendance_auto_checkout", j.interval, j.AutoCheckout)
}

// AutoCheckout sweeps today once the default check-out time has passed.
// Earlier ticks are no-ops; later ticks on the same day find nothing left.
func (j *AttendanceJobs) AutoCheckout(ctx context.Context) error {
	now := j.clock.Now().In(j.location)
	if now.Before(j.checkoutAt.On(now, j.location)) {
		return nil
	}

	day := calendar.DateOf(now)
	count, err := j.attendance.AutoCheckout(ctx, day)
	if err != nil {
		return fmt.Errorf("auto checkout %s: %w", day.Format("2006-01-02"), err)
	}

	if count > 0 {
		slog.Info("Cron: auto checked out attendances", "day", day.Format("2006-01-02"), "count", count)
	}
	return nil
}
