package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/http/respond"
	"github.com/apiseclab/backend/internal/models"
	"github.com/apiseclab/backend/internal/storage"
)

// Auth verifies the bearer token, resolves the principal from the stored
// user record, and attaches it to the request context. A missing or invalid
// credential is rejected here; handlers behind this middleware always see a
// verified principal.
func Auth(tokens *auth.TokenManager, users storage.UserStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := users.FindUserByUsername(r.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusUnauthorized, "authentication required")
				return
			}
			respond.FromError(w, err)
			return
		}

		p := auth.Principal{
			UserID:   user.ID,
			Username: user.Username,
			Role:     user.Role,
			IsAdmin:  user.IsAdmin || user.Role == models.RoleAdmin,
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
	})
}
