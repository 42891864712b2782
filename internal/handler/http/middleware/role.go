package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-backoffice-go/internal/handler/http/response"
)

func requireRole(role employee.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.IdentityFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if id.Role != role {
				response.HandleError(w, auth.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly requires admin role
func AdminOnly(next http.Handler) http.Handler {
	return requireRole(employee.RoleAdmin)(next)
}

// EmployeeOnly requires employee role
func EmployeeOnly(next http.Handler) http.Handler {
	return requireRole(employee.RoleEmployee)(next)
}
