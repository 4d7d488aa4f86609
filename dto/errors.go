package dto

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNilReqConfig = errors.New("nil ReqConfig provided")
	ErrNoSession    = errors.New("no session stored")
)

// HTTPError is returned when a response arrived with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Headers    http.Header
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, string(e.Body))
}

// Response rebuilds the received response so callers can still read it.
func (e *HTTPError) Response() Response {
	return Response{StatusCode: e.StatusCode, Headers: e.Headers, Body: e.Body}
}

// NetworkFailure is returned when no response was received at all.
type NetworkFailure struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkFailure) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
