package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

// Create implements LeaveHandler.
func (h *leaveHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	requester, ok := identity(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if !decodeJSON(w, r, &req, "CreateLeaveRequest") {
		return
	}

	created, err := h.leaveService.RequestLeave(r.Context(), requester, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// List implements LeaveHandler.
func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := identity(w, r)
	if !ok {
		return
	}

	filter := leave.LeaveRequestFilter{EmployeeID: r.URL.Query().Get("employee_id")}
	if s := r.URL.Query().Get("status"); s != "" {
		status := leave.Status(s)
		if status != leave.StatusPending && status != leave.StatusApproved && status != leave.StatusRejected {
			response.ValidationError(w, map[string]string{"status": "status must be one of pending, approved, rejected"})
			return
		}
		filter.Status = &status
	}

	requests, err := h.leaveService.List(r.Context(), viewer, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, requests)
}

// Get implements LeaveHandler.
func (h *leaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	viewer, ok := identity(w, r)
	if !ok {
		return
	}

	l, err := h.leaveService.Get(r.Context(), viewer, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, l)
}

// Review implements LeaveHandler.
func (h *leaveHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	reviewer, ok := identity(w, r)
	if !ok {
		return
	}

	var req leave.ReviewLeaveRequest
	if !decodeJSON(w, r, &req, "ReviewLeaveRequest") {
		return
	}
	req.ID = chi.URLParam(r, "id")

	reviewed, err := h.leaveService.ReviewLeave(r.Context(), reviewer, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+reviewed.Status, reviewed)
}
