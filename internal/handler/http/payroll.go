package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	Finalize(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var req payroll.PeriodRequest
	if !decodeJSON(w, r, &req, "GeneratePayroll") {
		return
	}

	result, err := h.payrollService.GeneratePayroll(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll generated successfully", result)
}

// Finalize implements PayrollHandler.
func (h *payrollHandlerImpl) Finalize(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var req payroll.PeriodRequest
	if !decodeJSON(w, r, &req, "FinalizePayroll") {
		return
	}

	result, err := h.payrollService.FinalizePayroll(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll finalized successfully", result)
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := identity(w, r)
	if !ok {
		return
	}

	details := map[string]string{}
	month, ok := optionalIntQueryParam(r, "month")
	if !ok {
		details["month"] = "month must be a number"
	}
	year, ok := optionalIntQueryParam(r, "year")
	if !ok {
		details["year"] = "year must be a number"
	}

	filter := payroll.PayrollFilter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		Month:      month,
		Year:       year,
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := payroll.Status(s)
		if status != payroll.StatusDraft && status != payroll.StatusFinalized {
			details["status"] = "status must be draft or finalized"
		}
		filter.Status = &status
	}
	if len(details) > 0 {
		response.ValidationError(w, details)
		return
	}

	records, err := h.payrollService.List(r.Context(), viewer, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// Get implements PayrollHandler.
func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	viewer, ok := identity(w, r)
	if !ok {
		return
	}

	record, err := h.payrollService.Get(r.Context(), viewer, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, record)
}
