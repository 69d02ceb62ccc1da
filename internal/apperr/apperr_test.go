package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrNotFound, http.StatusNotFound},
		{ErrConflict, http.StatusConflict},
		{ErrQuotaExceeded, http.StatusPaymentRequired},
		{ErrValidation, http.StatusBadRequest},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), "err=%v", tt.err)
	}
}

func TestStatus_Wrapped(t *testing.T) {
	// Wrapping must not change the mapping.
	wrapped := fmt.Errorf("creating note: %w", ErrQuotaExceeded)
	assert.Equal(t, http.StatusPaymentRequired, Status(wrapped))
}
