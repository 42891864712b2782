package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
)

type AttendanceService interface {
	Mark(ctx context.Context, req MarkAttendanceRequest, markedBy string) (AttendanceResponse, error)
	List(ctx context.Context, viewer auth.Identity, filter AttendanceFilter) ([]AttendanceResponse, error)
	Summarize(ctx context.Context, employeeID string, from, to time.Time) (Summary, error)
	GetSummary(ctx context.Context, viewer auth.Identity, req SummaryRequest) (SummaryResponse, error)
	AutoCheckout(ctx context.Context, day time.Time) (int, error)
}
