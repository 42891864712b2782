package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
)

type LeaveService interface {
	RequestLeave(ctx context.Context, requester auth.Identity, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	ReviewLeave(ctx context.Context, reviewer auth.Identity, req ReviewLeaveRequest) (LeaveRequestResponse, error)
	List(ctx context.Context, viewer auth.Identity, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
	Get(ctx context.Context, viewer auth.Identity, id string) (LeaveRequestResponse, error)
}
