package download

import (
	"fmt"
)

// ErrorType represents the category of error that occurred during a download
// attempt
type ErrorType string

const (
	// ErrorTypeForbidden indicates the server refused the request (HTTP 403)
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeNotFound indicates the logo does not exist on the server (HTTP 404)
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeHTTP indicates any other non-200 HTTP response
	ErrorTypeHTTP ErrorType = "http"
	// ErrorTypeTransport indicates a network-level error (connection refused, DNS, timeout)
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeUnexpected indicates a local failure, typically while writing the file
	ErrorTypeUnexpected ErrorType = "unexpected"
	// ErrorTypeExhausted indicates every attempt failed
	ErrorTypeExhausted ErrorType = "exhausted"
)

// DownloadError represents a structured error from a download operation
type DownloadError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *DownloadError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// NewTransportError creates a transport error
func NewTransportError(cause error) *DownloadError {
	return &DownloadError{
		Type:    ErrorTypeTransport,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewUnexpectedError creates an unexpected error
func NewUnexpectedError(cause error) *DownloadError {
	return &DownloadError{
		Type:    ErrorTypeUnexpected,
		Message: "download failed unexpectedly",
		Cause:   cause,
	}
}

// NewExhaustedError creates a retry-exhaustion error wrapping the first
// attempt's failure
func NewExhaustedError(attempts int, cause error) *DownloadError {
	return &DownloadError{
		Type:    ErrorTypeExhausted,
		Message: fmt.Sprintf("all %d attempts failed", attempts),
		Cause:   cause,
	}
}

// ClassifyHTTPStatus classifies a non-200 HTTP status code into an
// appropriate DownloadError
func ClassifyHTTPStatus(statusCode int) *DownloadError {
	switch {
	case statusCode == 403:
		return &DownloadError{
			Type:       ErrorTypeForbidden,
			StatusCode: statusCode,
			Message:    "access forbidden",
		}
	case statusCode == 404:
		return &DownloadError{
			Type:       ErrorTypeNotFound,
			StatusCode: statusCode,
			Message:    "file not found",
		}
	default:
		return &DownloadError{
			Type:       ErrorTypeHTTP,
			StatusCode: statusCode,
			Message:    fmt.Sprintf("unexpected status code: %d", statusCode),
		}
	}
}
