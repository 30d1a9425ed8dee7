package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"costaverde/internal/interval"
	"costaverde/internal/lifecycle"
	"costaverde/internal/schedule"
)

func TestFromDomain(t *testing.T) {
	iv := interval.Interval{
		Start: time.Date(2025, 10, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 12, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"passthrough", NewHTTPError(400, "bad input"), http.StatusBadRequest},
		{"conflict", &schedule.ConflictError{ResourceID: "r1", Conflicts: []interval.Interval{iv}}, http.StatusConflict},
		{"invalid transition", &lifecycle.InvalidTransitionError{Axis: "status", From: "checked-in", To: "cancelled"}, http.StatusUnprocessableEntity},
		{"invalid interval", fmt.Errorf("reserve: %w", interval.ErrInvalidInterval), http.StatusBadRequest},
		{"not found", fmt.Errorf("resource: %w", ErrNotFound), http.StatusNotFound},
		{"unavailable", fmt.Errorf("resource r1: %w", ErrResourceUnavailable), http.StatusConflict},
		{"in use", fmt.Errorf("resource r1: %w", ErrResourceInUse), http.StatusConflict},
		{"transient", fmt.Errorf("tx: %w", ErrTransient), http.StatusServiceUnavailable},
		{"unknown", stderrors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, FromDomain(tc.err).Code)
		})
	}

	t.Run("unknown errors hide detail", func(t *testing.T) {
		assert.Equal(t, "internal error", FromDomain(stderrors.New("pq: secret")).Message)
	})
}
