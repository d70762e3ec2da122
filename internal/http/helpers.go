package http

import (
	"net/http"
	"strings"

	"chitieu/internal/api"
	"chitieu/internal/ui"
)

// ViewHeader carries the page-load id; the layout sets it on <body> through
// hx-headers so every htmx request inherits it.
const ViewHeader = "X-View-ID"

// viewID returns the view a request belongs to, from the header or, for
// plain form posts, the "view" field.
func viewID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(ViewHeader)); v != "" {
		return v
	}
	return strings.TrimSpace(r.URL.Query().Get("view"))
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// failureText words a failed backend write: the server's message when it
// sent one, a connection notice when nothing answered, else fallback.
func failureText(err error, fallback string) string {
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	if api.IsTransport(err) {
		return ui.MsgConnectionFailed
	}
	return fallback
}
