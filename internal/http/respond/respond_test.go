package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/apiseclab/backend/internal/apperr"
)

func TestFromErrorStatusClasses(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.ErrInvalidCredentials, http.StatusUnauthorized},
		{apperr.ErrAccessDenied, http.StatusForbidden},
		{apperr.ErrNotFound, http.StatusNotFound},
		{apperr.ErrAlreadyExists, http.StatusConflict},
		{apperr.ErrConcurrentUpdate, http.StatusConflict},
		{apperr.ErrAmountInvalid, http.StatusBadRequest},
		{apperr.ErrAmountTooLarge, http.StatusBadRequest},
		{apperr.ErrInsufficientFunds, http.StatusBadRequest},
		{apperr.ErrQueryTooShort, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		FromError(rec, tc.err)
		if rec.Code != tc.status {
			t.Fatalf("%v: status %d, want %d", tc.err, rec.Code, tc.status)
		}
		if !strings.Contains(rec.Body.String(), tc.err.Error()) {
			t.Fatalf("%v: body %q missing message", tc.err, rec.Body.String())
		}
	}
}

// TestFromErrorHidesInternalDetail asserts unclassified errors surface only
// the generic message, never their own text.
func TestFromErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	FromError(rec, errors.New(`pq: relation "app_users" does not exist`))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := rec.Body.String()
	if strings.Contains(body, "app_users") || strings.Contains(body, "pq:") {
		t.Fatalf("internal detail leaked: %s", body)
	}
	if !strings.Contains(body, "an unexpected error occurred") {
		t.Fatalf("generic message missing: %s", body)
	}
}
