package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
	// ApplyApproval fails with ErrAlreadyReviewed when the request is no longer
	// pending and ErrInsufficientBalance when the balance cannot cover Days.
	// Neither write survives a failure of the other.
	ApplyApproval(ctx context.Context, cmd ApprovalCommand) (LeaveRequest, error)
	ApplyRejection(ctx context.Context, cmd RejectionCommand) (LeaveRequest, error)
	// ListApprovedOverlapping returns approved requests of the employee whose
	// span intersects [from, to].
	ListApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]LeaveRequest, error)
}
