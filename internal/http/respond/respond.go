// Package respond writes JSON responses and is the single boundary that
// converts errors into external bodies. Errors outside the apperr
// vocabulary are logged and replaced with one generic message.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/apiseclab/backend/internal/apperr"
)

const internalMessage = "an unexpected error occurred"

// JSON writes a JSON payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}

// Error writes an error body of the form {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// FromError maps a use-case error to its status class and fixed message.
// Unclassified errors never leak: their detail goes to the log sink only.
func FromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, apperr.ErrInvalidCredentials.Error())
	case errors.Is(err, apperr.ErrAccessDenied):
		Error(w, http.StatusForbidden, apperr.ErrAccessDenied.Error())
	case errors.Is(err, apperr.ErrNotFound):
		Error(w, http.StatusNotFound, apperr.ErrNotFound.Error())
	case errors.Is(err, apperr.ErrAlreadyExists):
		Error(w, http.StatusConflict, apperr.ErrAlreadyExists.Error())
	case errors.Is(err, apperr.ErrConcurrentUpdate):
		Error(w, http.StatusConflict, apperr.ErrConcurrentUpdate.Error())
	case isValidation(err):
		Error(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("internal error: %v", err)
		Error(w, http.StatusInternalServerError, internalMessage)
	}
}

func isValidation(err error) bool {
	for _, v := range []error{
		apperr.ErrAmountInvalid,
		apperr.ErrAmountTooLarge,
		apperr.ErrInsufficientFunds,
		apperr.ErrQueryTooShort,
		apperr.ErrMissingFields,
		apperr.ErrPasswordTooShort,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
