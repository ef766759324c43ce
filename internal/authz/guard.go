// Package authz holds the authorization guard: pure, deterministic
// predicates consumed by every resource operation before storage is touched.
package authz

import "github.com/apiseclab/backend/internal/auth"

// OwnsResource reports whether the principal is the resource owner.
// Admin does not override this check; operations that want an admin
// escape hatch use CanAccessResource instead.
func OwnsResource(p auth.Principal, resourceOwnerID int64) bool {
	return p.UserID == resourceOwnerID
}

// CanAccessResource reports whether the principal owns the resource or
// carries the elevated role.
func CanAccessResource(p auth.Principal, resourceOwnerID int64) bool {
	return OwnsResource(p, resourceOwnerID) || p.IsAdmin
}

// RequireAdmin reports whether the principal holds the single elevated
// role in this domain.
func RequireAdmin(p auth.Principal) bool {
	return p.IsAdmin
}
