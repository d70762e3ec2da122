package log

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type attrsKey struct{}

// WithAttrs returns a context whose log records gain args, after any
// attributes already stored in ctx.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	attrs := make([]slog.Attr, 0, len(prev)+len(args)/2)
	attrs = append(attrs, prev...)
	r := slog.NewRecord(time.Time{}, 0, "", 0)
	r.Add(args...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return context.WithValue(ctx, attrsKey{}, attrs)
}

// contextHandler copies the attributes stored by WithAttrs onto each record.
type contextHandler struct {
	slog.Handler
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// ViewMiddleware tags the request's log records with the page view named
// in header, when the browser sent one.
func ViewMiddleware(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id := r.Header.Get(header); id != "" {
				r = r.WithContext(WithAttrs(r.Context(), FieldView, id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MutationLogger records successful backend writes.
type MutationLogger struct {
	logger *Logger
}

func NewMutationLogger(logger *Logger) *MutationLogger {
	return &MutationLogger{logger: logger}
}

// LogMutation logs one write; id is empty for creates.
func (m *MutationLogger) LogMutation(ctx context.Context, component, operation, resource, id string) {
	args := []any{FieldOperation, operation, FieldResource, resource}
	if id != "" {
		args = append(args, FieldResourceID, id)
	}
	m.logger.WithComponent(component).InfoContext(ctx, "Backend write succeeded", args...)
}
