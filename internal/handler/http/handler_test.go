package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLeaveService struct {
	reviewErr error
	reviewed  leave.ReviewLeaveRequest
}

func (s *stubLeaveService) RequestLeave(ctx context.Context, requester auth.Identity, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	return leave.LeaveRequestResponse{}, nil
}

func (s *stubLeaveService) ReviewLeave(ctx context.Context, reviewer auth.Identity, req leave.ReviewLeaveRequest) (leave.LeaveRequestResponse, error) {
	s.reviewed = req
	if s.reviewErr != nil {
		return leave.LeaveRequestResponse{}, s.reviewErr
	}
	return leave.LeaveRequestResponse{ID: req.ID, Status: string(leave.StatusApproved)}, nil
}

func (s *stubLeaveService) List(ctx context.Context, viewer auth.Identity, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	return nil, nil
}

func (s *stubLeaveService) Get(ctx context.Context, viewer auth.Identity, id string) (leave.LeaveRequestResponse, error) {
	return leave.LeaveRequestResponse{}, leave.ErrLeaveRequestNotFound
}

type stubPayrollService struct {
	filter payroll.PayrollFilter
}

func (s *stubPayrollService) GeneratePayroll(ctx context.Context, actor auth.Identity, req payroll.PeriodRequest) (payroll.GeneratePayrollResponse, error) {
	return payroll.GeneratePayrollResponse{}, nil
}

func (s *stubPayrollService) FinalizePayroll(ctx context.Context, actor auth.Identity, req payroll.PeriodRequest) (payroll.FinalizePayrollResponse, error) {
	return payroll.FinalizePayrollResponse{}, payroll.ErrNoDraftPayroll
}

func (s *stubPayrollService) List(ctx context.Context, viewer auth.Identity, filter payroll.PayrollFilter) ([]payroll.PayrollRecordResponse, error) {
	s.filter = filter
	return []payroll.PayrollRecordResponse{}, nil
}

func (s *stubPayrollService) Get(ctx context.Context, viewer auth.Identity, id string) (payroll.PayrollRecordResponse, error) {
	return payroll.PayrollRecordResponse{}, nil
}

var adminIdentity = auth.Identity{UserID: "admin-1", Email: "admin@example.com", Role: employee.RoleAdmin}

func withIdentity(req *http.Request, id auth.Identity) *http.Request {
	return req.WithContext(auth.WithIdentity(req.Context(), id))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestLeaveHandler_Review(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "approved", body: `{"action":"approve"}`, wantCode: http.StatusOK},
		{name: "malformed body", body: `{"action":`, wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
		{name: "already reviewed", body: `{"action":"approve"}`, err: leave.ErrAlreadyReviewed, wantCode: http.StatusConflict, wantErr: "CONFLICT"},
		{name: "insufficient balance", body: `{"action":"approve"}`, err: leave.ErrInsufficientBalance, wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
		{name: "not found", body: `{"action":"reject"}`, err: leave.ErrLeaveRequestNotFound, wantCode: http.StatusNotFound, wantErr: "NOT_FOUND"},
		{name: "unexpected", body: `{"action":"reject"}`, err: errors.New("connection reset"), wantCode: http.StatusInternalServerError, wantErr: "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubLeaveService{reviewErr: tt.err}
			h := NewLeaveHandler(svc)

			req := httptest.NewRequest(http.MethodPut, "/api/v1/leave/l-1/review", strings.NewReader(tt.body))
			req = withURLParam(withIdentity(req, adminIdentity), "id", "l-1")
			rr := httptest.NewRecorder()
			h.Review(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
			body := decodeResponse(t, rr)
			if tt.wantErr == "" {
				assert.True(t, body.Success)
				assert.Equal(t, "l-1", svc.reviewed.ID)
				return
			}
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantErr, body.Error.Code)
			if tt.wantCode == http.StatusInternalServerError {
				assert.NotContains(t, body.Error.Message, "connection reset")
			}
		})
	}
}

func TestLeaveHandler_ListRejectsUnknownStatus(t *testing.T) {
	h := NewLeaveHandler(&stubLeaveService{})

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/leave?status=cancelled", nil), adminIdentity)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := decodeResponse(t, rr)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Details, "status")
}

func TestPayrollHandler_List(t *testing.T) {
	t.Run("parses filters", func(t *testing.T) {
		svc := &stubPayrollService{}
		h := NewPayrollHandler(svc)

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/payroll?month=3&year=2025&status=draft", nil), adminIdentity)
		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, svc.filter.Month)
		require.NotNil(t, svc.filter.Year)
		require.NotNil(t, svc.filter.Status)
		assert.Equal(t, 3, *svc.filter.Month)
		assert.Equal(t, 2025, *svc.filter.Year)
		assert.Equal(t, payroll.StatusDraft, *svc.filter.Status)
	})

	t.Run("reports every bad parameter", func(t *testing.T) {
		h := NewPayrollHandler(&stubPayrollService{})

		req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/v1/payroll?month=march&year=x&status=paid", nil), adminIdentity)
		rr := httptest.NewRecorder()
		h.List(rr, req)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		body := decodeResponse(t, rr)
		require.NotNil(t, body.Error)
		assert.Len(t, body.Error.Details, 3)
	})
}

func TestPayrollHandler_FinalizeWithoutDrafts(t *testing.T) {
	h := NewPayrollHandler(&stubPayrollService{})

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/v1/payroll/finalize", strings.NewReader(`{"month":3,"year":2025}`)), adminIdentity)
	rr := httptest.NewRecorder()
	h.Finalize(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decodeResponse(t, rr)
	require.NotNil(t, body.Error)
	assert.Equal(t, "No draft payroll found for this period", body.Error.Message)
}

func TestHandlers_RequireIdentity(t *testing.T) {
	h := NewLeaveHandler(&stubLeaveService{})

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/api/v1/leave", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
