package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for the failure channel between the storage layer and the
// handlers. Expected policy DENY outcomes are normal return values elsewhere
// and never travel through these.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the login response cannot be used to enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned for a resource that is absent or outside the
	// caller's tenant scope. The two cases are deliberately
	// indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on a unique-constraint violation, detected
	// structurally via gorm's translated duplicate-key error.
	ErrConflict = errors.New("duplicate resource")

	// ErrQuotaExceeded is returned when a free-plan tenant is at its note
	// limit.
	ErrQuotaExceeded = errors.New("note limit reached")

	// ErrValidation is returned for a malformed or incomplete request body.
	ErrValidation = errors.New("invalid request")
)

// CodeNoteLimitReached is the machine-readable code clients use to tell a
// quota denial apart from a generic failure.
const CodeNoteLimitReached = "note_limit_reached"

// Status maps a storage/handler error to its externally visible HTTP status.
// Anything unrecognized is an internal error.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
