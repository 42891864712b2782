package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var req attendance.MarkAttendanceRequest
	if !decodeJSON(w, r, &req, "MarkAttendance") {
		return
	}

	marked, err := h.attendanceService.Mark(r.Context(), req, actor.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance marked successfully", marked)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := identity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req := attendance.ListAttendanceRequest{
		EmployeeID: q.Get("employee_id"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	records, err := h.attendanceService.List(r.Context(), viewer, req.Filter())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	viewer, ok := identity(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	summary, err := h.attendanceService.GetSummary(r.Context(), viewer, attendance.SummaryRequest{
		EmployeeID: q.Get("employee_id"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, summary)
}
