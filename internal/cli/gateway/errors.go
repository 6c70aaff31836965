package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// StatusError is returned for every response with status >= 400.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := e.Message()
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, msg)
}

// Message returns the server supplied {"message": ...} text or the trimmed raw body.
func (e *StatusError) Message() string {
	var m struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(e.Body, &m); err == nil && m.Message != "" {
		return m.Message
	}
	return strings.TrimSpace(string(e.Body))
}

// IsStatus reports whether err carries an HTTP failure with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// IsUnauthorized reports an authorization failure (401).
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsCanceled reports a client-initiated cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
