package logger

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
)

const loggerPkgPrefix = "github.com/campushub/campushub/internal/shared/logger."

// sourceHandler attaches the caller location to records at or above
// minLevel. Frames inside log/slog and this package's wrappers are skipped
// so the location names the code that logged, not the Interface adapter.
// The wrapped handler must have AddSource disabled.
type sourceHandler struct {
	handler  slog.Handler
	minLevel slog.Level
}

func newSourceHandler(handler slog.Handler, minLevel slog.Level) slog.Handler {
	return &sourceHandler{handler: handler, minLevel: minLevel}
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel {
		if src := callerSource(); src != nil {
			r.AddAttrs(slog.Any(slog.SourceKey, src))
		}
	}
	return h.handler.Handle(ctx, r)
}

func callerSource() *slog.Source {
	var pcs [16]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !isLoggingFrame(f) {
			return &slog.Source{Function: f.Function, File: f.File, Line: f.Line}
		}
		if !more {
			return nil
		}
	}
}

func isLoggingFrame(f runtime.Frame) bool {
	if strings.HasPrefix(f.Function, "log/slog.") {
		return true
	}
	return strings.HasPrefix(f.Function, loggerPkgPrefix) && !strings.HasSuffix(f.File, "_test.go")
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{handler: h.handler.WithAttrs(attrs), minLevel: h.minLevel}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{handler: h.handler.WithGroup(name), minLevel: h.minLevel}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
