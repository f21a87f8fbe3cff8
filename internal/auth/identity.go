// Package auth resolves caller identity at the boundary with the external
// authentication provider. The provider issues bearer tokens; this package
// verifies them and threads the resulting identity through the request
// context. Below the middleware, identity is always an explicit parameter —
// never read from ambient state.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is a resolved caller. The zero value means "anonymous".
type Identity struct {
	UserID uuid.UUID
}

// IsAnonymous reports whether no caller identity was resolved.
func (id Identity) IsAnonymous() bool {
	return id.UserID == uuid.Nil
}

type contextKey struct{}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFrom extracts the caller identity from ctx.
// Returns the anonymous identity when none was set.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(contextKey{}).(Identity)
	return id
}
