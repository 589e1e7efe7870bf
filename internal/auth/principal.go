package auth

import "context"

type contextKey string

const principalContextKey contextKey = "principal"

// Principal is the authenticated identity resolved from the session
// token. Handlers receive it explicitly through the request context
// rather than reading ambient global state, which keeps authorization
// decisions testable in isolation.
type Principal struct {
	UserID int
	Email  string
	Role   string
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFrom extracts the principal placed by the auth middleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	return p, ok
}
