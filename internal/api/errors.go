package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrTransport marks failures where no HTTP response was received.
var ErrTransport = errors.New("backend unreachable")

// StatusError is a non-success response from the backend. Message is the
// server-provided "message" field, possibly empty.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("backend returned %d: %s", e.Code, e.Message)
}

// ServerMessage extracts the backend's message from err, if any.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}

// IsTransport reports whether err is a connection-level failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}
