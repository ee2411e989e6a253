package api

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a response whose status the operation did not expect.
type StatusError struct {
	Op         string // e.g. "delete work"
	StatusCode int
	Body       string // truncated response body, may be empty
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not a *StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}
