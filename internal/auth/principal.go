package auth

import "context"

// Principal is the verified identity attached to a request. It is resolved
// once by the auth middleware and is immutable for the request's lifetime.
type Principal struct {
	UserID   int64
	Username string
	Role     string
	IsAdmin  bool
}

type principalKey struct{}

// WithPrincipal stores the resolved principal on the request context.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the request principal. The second return is false
// when no verified identity is present; callers must treat that as an
// authentication failure, never as an empty-privilege principal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
