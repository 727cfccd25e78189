// Package errors defines the application error taxonomy and central reporting.
package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError carries the internal message, the text shown to the user, and
// routing hints for the central handler.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// NewFetchError wraps a failure to obtain a quote: transport errors,
// non-success responses, malformed bodies.
func NewFetchError(stage string, cause error) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     fmt.Sprintf("quote fetch failed: %s", stage),
		UserMessage: "Could not fetch the bitcoin price. Please try again later.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewQuoteParseError marks a price field that could not be parsed as a
// decimal. It is never substituted with a zero value; a zero price shown as
// a genuine quote would be worse than an error.
func NewQuoteParseError(raw string, cause error) *AppError {
	return &AppError{
		Code:        "E101",
		Message:     fmt.Sprintf("quote price %q is not a valid decimal", raw),
		UserMessage: "The price service returned an unreadable quote. Please try again later.",
		Severity:    SeverityHigh,
		Retryable:   false,
		cause:       cause,
	}
}

// NewDispatchError wraps a failure to deliver a command reply.
func NewDispatchError(cause error) *AppError {
	return &AppError{
		Code:        "E200",
		Message:     "failed to deliver reply",
		UserMessage: "Could not deliver the reply. Please try again.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewPollError wraps a failure within a single poll iteration.
func NewPollError(cause error) *AppError {
	return &AppError{
		Code:        "E300",
		Message:     "update poll iteration failed",
		UserMessage: "Something went wrong. Please try again later.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewAckError wraps a failed callback acknowledgment. Never retried; the
// loop moves on.
func NewAckError(cause error) *AppError {
	return &AppError{
		Code:        "E400",
		Message:     "failed to acknowledge callback query",
		UserMessage: "",
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       cause,
	}
}

// NewInternalError covers recovered panics and other unexpected failures.
func NewInternalError(cause error) *AppError {
	return &AppError{
		Code:        "E500",
		Message:     "internal error",
		UserMessage: "Something went wrong. Please try again later.",
		Severity:    SeverityCritical,
		Retryable:   false,
		cause:       cause,
	}
}
