package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func identityEcho(t *testing.T, got *auth.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		require.True(t, ok)
		*got = id
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthRequired(t *testing.T) {
	svc, err := jwt.NewJWTService("secret", "1h", clockwork.NewRealClock())
	require.NoError(t, err)

	var got auth.Identity
	h := jwtauth.Verifier(svc.JWTAuth())(AuthRequired(identityEcho(t, &got)))

	t.Run("access token", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken("u-1", "ana@example.com", "employee")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, auth.Identity{UserID: "u-1", Email: "ana@example.com", Role: employee.RoleEmployee}, got)
	})

	t.Run("stream token is not an access token", func(t *testing.T) {
		token, _, err := svc.GenerateStreamToken("u-1")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestRoles(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	cases := []struct {
		name string
		mw   func(http.Handler) http.Handler
		role employee.Role
		want int
	}{
		{"admin on admin route", AdminOnly, employee.RoleAdmin, http.StatusOK},
		{"employee on admin route", AdminOnly, employee.RoleEmployee, http.StatusForbidden},
		{"employee on employee route", EmployeeOnly, employee.RoleEmployee, http.StatusOK},
		{"admin on employee route", EmployeeOnly, employee.RoleAdmin, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: "u", Role: tc.role}))
			rr := httptest.NewRecorder()
			tc.mw(ok).ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}
}

func TestRateLimiter_PerUser(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(0.001), 2)
	h := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	call := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: userID}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusOK, call("b"))
}
