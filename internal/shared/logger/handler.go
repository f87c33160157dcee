package logger

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
)

const redactedValue = "[REDACTED]"

// sensitiveKeys are attribute keys whose values never reach the log output.
var sensitiveKeys = map[string]bool{
	"access_token":  true,
	"accesstoken":   true,
	"refresh_token": true,
	"refreshtoken":  true,
	"client_secret": true,
	"api_key":       true,
	"apikey":        true,
	"token":         true,
	"signature":     true,
	"authorization": true,
	"password":      true,
}

type appHandler struct {
	handler          slog.Handler
	showSourceLevels map[slog.Level]bool
}

// NewHandler wraps handler so that credentials are masked and the source location is
// attached only for the given levels. The wrapped handler should have AddSource: false.
//
//	handler := NewHandler(
//	    tint.NewHandler(os.Stdout, opts),
//	    slog.LevelWarn,
//	    slog.LevelError,
//	)
func NewHandler(handler slog.Handler, showSourceForLevels ...slog.Level) slog.Handler {
	levelMap := make(map[slog.Level]bool, len(showSourceForLevels))
	for _, level := range showSourceForLevels {
		levelMap[level] = true
	}
	return &appHandler{
		handler:          handler,
		showSourceLevels: levelMap,
	}
}

func (h *appHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})

	if h.showSourceLevels[r.Level] {
		// skip runtime.Callers, this frame and the slog frame
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		f, _ := runtime.CallersFrames(pcs[:]).Next()
		out.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		}))
	}

	return h.handler.Handle(ctx, out)
}

func (h *appHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		redacted = append(redacted, redactAttr(a))
	}
	return &appHandler{
		handler:          h.handler.WithAttrs(redacted),
		showSourceLevels: h.showSourceLevels,
	}
}

func (h *appHandler) WithGroup(name string) slog.Handler {
	return &appHandler{
		handler:          h.handler.WithGroup(name),
		showSourceLevels: h.showSourceLevels,
	}
}

func (h *appHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		redacted := make([]any, 0, len(group))
		for _, ga := range group {
			redacted = append(redacted, redactAttr(ga))
		}
		return slog.Group(a.Key, redacted...)
	}
	if sensitiveKeys[strings.ToLower(a.Key)] && !isEmptyValue(a.Value) {
		return slog.String(a.Key, redactedValue)
	}
	return a
}

func isEmptyValue(v slog.Value) bool {
	return v.Kind() == slog.KindString && v.String() == ""
}
