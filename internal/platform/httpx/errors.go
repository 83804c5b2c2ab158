package httpx

import (
	"errors"
	"net/http"

	"github.com/inventox/inventox/internal/shared"
)

// RespondError maps domain errors to HTTP responses. Storage faults and other
// unknown errors collapse to a generic 500 so internals never leak outward.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, shared.ErrUnauthenticated):
		Error(w, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, shared.ErrForbidden):
		Error(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, shared.ErrNotFound):
		Error(w, http.StatusNotFound, "Not found")
	case errors.Is(err, shared.ErrWrongPassword):
		Error(w, http.StatusBadRequest, "Current password incorrect")
	case errors.Is(err, shared.ErrDuplicate):
		Error(w, http.StatusBadRequest, "User exists")
	case errors.Is(err, shared.ErrInvalidInput):
		Error(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, shared.ErrThrottled):
		Error(w, http.StatusTooManyRequests, "Too many attempts")
	default:
		Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
