package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"askboard/internal/services"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{services.ErrUnauthorized, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrAlreadyVoted, http.StatusConflict},
		{services.ErrNotVoted, http.StatusConflict},
		{fmt.Errorf("%w: too long", services.ErrInvalidInput), http.StatusBadRequest},
		{services.ErrRateLimited, http.StatusTooManyRequests},
		{fmt.Errorf("%w: insert: %w", services.ErrStorageFailure, errors.New("boom")), http.StatusInternalServerError},
		{errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
