package middleware

import (
	"context"

	"github.com/worldpop/worldpop-api/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// principalKey is the context key for the authenticated principal
	principalKey contextKey = "principal"
)

// Principal is the request-scoped authenticated identity, populated after
// token validation and consumed by role checks and business handlers. It
// lives only for the duration of one request.
type Principal struct {
	Username string
	Role     models.Role
}

// WithPrincipal adds the authenticated principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the authenticated principal from context.
// Returns nil when the request did not pass authentication.
func PrincipalFromContext(ctx context.Context) *Principal {
	if val := ctx.Value(principalKey); val != nil {
		if p, ok := val.(*Principal); ok {
			return p
		}
	}
	return nil
}
