package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBodyBytes caps how much of an error response body is retained.
const maxErrorBodyBytes = 4096

// APIError represents a non-2xx response from the intelligence API. It
// carries the HTTP status and up to 4KB of the response body so callers can
// surface the upstream detail message.
type APIError struct {
	StatusCode int
	Path       string
	Body       string
}

// Error returns a formatted error string including path, status, and body.
func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api %s: HTTP %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s: HTTP %d: %s", e.Path, e.StatusCode, e.Body)
}

// HTTPStatus returns the response status code.
func (e *APIError) HTTPStatus() int { return e.StatusCode }

// Retryable reports whether the failure class is worth retrying: server
// errors may be transient, client errors are not.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// AsAPIError unwraps err into an *APIError if it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// parseAPIError drains up to maxErrorBodyBytes of the response body into an
// APIError.
func parseAPIError(path string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return &APIError{StatusCode: resp.StatusCode, Path: path, Body: string(body)}
}
