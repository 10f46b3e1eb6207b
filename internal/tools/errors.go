package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leonardcser/lol-esports-mcp/internal/cache"
	"github.com/leonardcser/lol-esports-mcp/internal/esports"
)

// Code identifies a class of tool failure.
type Code string

const (
	CodeTimeout       Code = "API_TIMEOUT"
	CodeRateLimited   Code = "API_RATE_LIMITED"
	CodeNoData        Code = "NO_DATA_AVAILABLE"
	CodeRequestFailed Code = "API_REQUEST_FAILED"
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeCache         Code = "CACHE_ERROR"
	CodeExecution     Code = "TOOL_EXECUTION_FAILED"
)

// Error is a tool failure rendered to the client with troubleshooting tips.
type Error struct {
	Code      Code
	Message   string
	Tool      string
	Tips      []string
	Retryable bool
	Err       error
}

func (e *Error) Error() string { return string(e.Code) + ": " + e.Message }

func (e *Error) Unwrap() error { return e.Err }

// UserMessage formats the error for display in a tool result.
func (e *Error) UserMessage() string {
	var sb strings.Builder
	sb.WriteString(e.emoji())
	sb.WriteString(" **Error**: ")
	sb.WriteString(e.Message)
	if len(e.Tips) > 0 {
		sb.WriteString("\n\n💡 **Troubleshooting tips:**")
		for _, tip := range e.Tips {
			sb.WriteString("\n   • ")
			sb.WriteString(tip)
		}
	}
	return sb.String()
}

// Result wraps the error as an MCP error result.
func (e *Error) Result() *mcp.CallToolResult {
	return mcp.NewToolResultError(e.UserMessage())
}

func (e *Error) emoji() string {
	switch e.Code {
	case CodeNoData:
		return "📭"
	case CodeRequestFailed, CodeTimeout:
		return "🌐"
	case CodeInvalidInput:
		return "⚠️"
	case CodeRateLimited:
		return "⏱️"
	default:
		return "❌"
	}
}

// InvalidInput reports a bad argument value.
func InvalidInput(tool, param string, value any) *Error {
	return &Error{
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("Invalid input for parameter %q: %v", param, value),
		Tool:    tool,
		Tips: []string{
			fmt.Sprintf("Check the expected format for parameter %q", param),
			"Refer to the tool's input schema for valid values",
			"Use the tool's description for usage examples",
		},
	}
}

// Classify maps an error from the service layer to a tool Error.
func Classify(err error, tool string) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}

	var se *esports.StatusError
	switch {
	case errors.Is(err, esports.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return &Error{
			Code: CodeTimeout, Message: "API request timed out", Tool: tool, Err: err, Retryable: true,
			Tips: []string{
				"The LoL Esports API is responding slowly",
				"Try again in a few moments",
				"Check your internet connection",
			},
		}
	case errors.As(err, &se) && se.Status == http.StatusTooManyRequests:
		return &Error{
			Code: CodeRateLimited, Message: "API rate limit exceeded", Tool: tool, Err: err, Retryable: true,
			Tips: []string{
				"Wait a few minutes before making another request",
				"The LoL Esports API has usage limits",
				"Consider reducing the frequency of requests",
			},
		}
	case errors.As(err, &se) && se.Status == http.StatusNotFound:
		return &Error{
			Code: CodeNoData, Message: "The requested data was not found", Tool: tool, Err: err,
			Tips: []string{
				"The requested data might not be available",
				"Check if the parameters are correct",
				"Use get-schedule to find valid event IDs",
			},
		}
	case errors.As(err, &se):
		return &Error{
			Code:      CodeRequestFailed,
			Message:   fmt.Sprintf("API request failed with status %d", se.Status),
			Tool:      tool,
			Err:       err,
			Retryable: se.Status >= http.StatusInternalServerError,
			Tips: []string{
				"Verify the LoL Esports API is operational",
				"Check that the configured API key is valid",
				"Try again in a few moments",
			},
		}
	case errors.Is(err, cache.ErrBackend):
		return &Error{
			Code: CodeCache, Message: "Cache backend unavailable", Tool: tool, Err: err, Retryable: true,
			Tips: []string{
				"Check that the cache server is reachable",
				"Switch cache.backend to memory to bypass the shared cache",
			},
		}
	default:
		return &Error{
			Code: CodeExecution, Message: "Tool execution failed: " + err.Error(), Tool: tool, Err: err,
			Tips: []string{
				"Check if all required parameters are provided",
				"Try again with different parameters",
				"Report this issue if it persists",
			},
		}
	}
}
