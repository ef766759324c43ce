package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/apiseclab/backend/internal/http/respond"
)

// Recover turns panics into the generic internal-error response. The stack
// goes to the log sink only.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %v\n%s", rec, debug.Stack())
				respond.Error(w, http.StatusInternalServerError, "an unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
