package log

import (
	"context"
	"io"
	"log/slog"
)

// SecureHandler wraps an slog.Handler and redacts secrets before records
// reach it. Proxy routes and page URLs are logged on every fetch, so the
// message, string attributes and error attributes are all inspected.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next. A nil next uses slog.Default().Handler().
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, RedactURL(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SecureHandler{next: h.next.WithAttrs(redactAttrs(attrs))}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

func redactAttrs(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = redactAttr(a)
	}
	return out
}

func redactAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()

	if v.Kind() == slog.KindGroup {
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redactAttrs(v.Group())...)}
	}
	if isMaskedKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	switch v.Kind() {
	case slog.KindString:
		if s := v.String(); redactString(s) != s {
			return slog.String(a.Key, redactString(s))
		}
	case slog.KindAny:
		// Transport errors quote the request URL, route included.
		if err, ok := v.Any().(error); ok {
			if msg := err.Error(); RedactURL(msg) != msg {
				return slog.String(a.Key, RedactURL(msg))
			}
		}
	}
	return slog.Attr{Key: a.Key, Value: v}
}

// newLogger builds a secure logger. Crawl progress is logged at Info, so
// the default level shows it; verbose adds Debug.
func newLogger(w io.Writer, verbose, jsonFormat bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if verbose {
		opts.Level = slog.LevelDebug
	}

	var h slog.Handler = slog.NewTextHandler(w, opts)
	if jsonFormat {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(NewSecureHandler(h))
}

// NewSecureLogger returns a text logger writing to w that redacts secrets.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return newLogger(w, verbose, false)
}

// NewSecureJSONLogger is NewSecureLogger with JSON output, for log
// aggregation.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return newLogger(w, verbose, true)
}
