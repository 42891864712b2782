package auth

import (
	"context"

	"github.com/cmlabs-hris/hris-backoffice-go/internal/domain/employee"
)

// Identity is the authenticated caller as carried by the access token.
type Identity struct {
	UserID string
	Email  string
	Role   employee.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == employee.RoleAdmin
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
