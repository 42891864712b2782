package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrAlreadyReviewed      = errors.New("leave request has already been reviewed")
	ErrEmployeesOnly        = errors.New("only employees can request leave")
)
