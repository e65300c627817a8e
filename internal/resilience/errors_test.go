package resilience

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	base := errors.New("boom")
	assert.Equal(t, 503, StatusCode(NewStatusError(base, 503)))
	assert.Equal(t, 429, StatusCode(fmt.Errorf("wrapped: %w", NewStatusError(base, 429))))
	assert.Zero(t, StatusCode(base))
	assert.Zero(t, StatusCode(nil))
}

func TestStatusError_Unwrap(t *testing.T) {
	base := errors.New("boom")
	err := NewStatusError(base, 500)
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "boom", err.Error())
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status 503", NewStatusError(errors.New("x"), 503), true},
		{"status 429", NewStatusError(errors.New("x"), 429), true},
		{"status 400", NewStatusError(errors.New("x"), 400), false},
		{"status 404", NewStatusError(errors.New("x"), 404), false},
		{"conn reset errno", syscall.ECONNRESET, true},
		{"conn refused errno", syscall.ECONNREFUSED, true},
		{"string heuristic", errors.New("read tcp: connection reset by peer"), true},
		{"dns heuristic", errors.New("dial tcp: lookup acme.nl: no such host"), true},
		{"plain error", errors.New("invalid input"), false},
		{"cancelled context", context.Canceled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, IsTransientHTTPStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 301, 400, 401, 403, 404, 422} {
		assert.False(t, IsTransientHTTPStatus(code), "status %d", code)
	}
}
