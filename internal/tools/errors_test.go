package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leonardcser/lol-esports-mcp/internal/cache"
	"github.com/leonardcser/lol-esports-mcp/internal/esports"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		err       error
		code      Code
		retryable bool
	}{
		{"timeout", fmt.Errorf("get schedule: %w", esports.ErrTimeout), CodeTimeout, true},
		{"deadline", context.DeadlineExceeded, CodeTimeout, true},
		{"429", &esports.StatusError{Status: http.StatusTooManyRequests}, CodeRateLimited, true},
		{"404", &esports.StatusError{Status: http.StatusNotFound}, CodeNoData, false},
		{"503", &esports.StatusError{Status: http.StatusServiceUnavailable}, CodeRequestFailed, true},
		{"403", &esports.StatusError{Status: http.StatusForbidden}, CodeRequestFailed, false},
		{"cache", fmt.Errorf("%w: connection refused", cache.ErrBackend), CodeCache, true},
		{"other", errors.New("boom"), CodeExecution, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(tt.err, "get-schedule")
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.retryable, got.Retryable)
			assert.Equal(t, "get-schedule", got.Tool)
			assert.NotEmpty(t, got.Tips)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_PassesThroughToolErrors(t *testing.T) {
	t.Parallel()
	in := InvalidInput("get-match-vods", "eventId", "empty")
	got := Classify(fmt.Errorf("wrapped: %w", in), "other")
	assert.Same(t, in, got)
	assert.Equal(t, CodeInvalidInput, got.Code)
}

func TestError_UserMessage(t *testing.T) {
	t.Parallel()
	e := &Error{Code: CodeNoData, Message: "No live matches available", Tips: []string{"Try later"}}
	assert.Equal(t, "📭 **Error**: No live matches available\n\n💡 **Troubleshooting tips:**\n   • Try later", e.UserMessage())

	res := e.Result()
	assert.True(t, res.IsError)
}
