package transactions

import (
	"errors"
	"fmt"
	"strings"
)

// Result codes carried in the backend response envelope.
const (
	CodeSuccess      = 0
	CodeSystem       = 500
	CodeNotFound     = 10001
	CodeInvalidParam = 10002
	CodeDegraded     = 99999
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, bodySnippet(e.Body))
}

// APIError is returned when a 2xx envelope carries a non-zero result code.
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Code, e.Msg)
}

// IsDegraded reports whether err is the backend's rate-limit/circuit-breaker answer.
func IsDegraded(err error) bool {
	return hasCode(err, CodeDegraded)
}

// IsNotFound reports whether err says the transaction does not exist.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

func hasCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

func bodySnippet(body string) string {
	const maxLen = 512
	s := strings.TrimSpace(body)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// DecodeError is returned when a 2xx body is not a valid response envelope.
type DecodeError struct {
	Method string
	Path   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decode response: %v", e.Method, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
