package domain

import (
	"fmt"
	"time"
)

// ToolError is the JSON body of a failed MCP tool call. RequestID matches the id
// logged for the call.
type ToolError struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Tool error codes
const (
	ErrInvalidInput   = "INVALID_INPUT"
	ErrInputBlocked   = "INPUT_BLOCKED"
	ErrEvaluation     = "EVALUATION_ERROR"
	ErrRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrInternalServer = "INTERNAL_SERVER_ERROR"
)

// ValidationError reports a ParameterInput field that could not be turned into a
// ParameterSet value, such as unknown enum text or a missing performance status.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewToolError stamps a ToolError with the current UTC time.
func NewToolError(code, message, details, requestID string) *ToolError {
	return &ToolError{
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
	}
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}
