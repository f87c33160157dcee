package logger

import (
	"context"
	"log/slog"
)

// Interface is the structured logger injected into use cases, handlers and repositories.
// Arguments after msg alternate between keys and values.
type Interface interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	// With returns a logger that adds keysAndValues to every entry.
	With(keysAndValues ...interface{}) Interface
}

type slogAdapter struct {
	base *slog.Logger
}

// NewLogger wraps the process logger configured by Init.
func NewLogger() Interface {
	return Wrap(Get())
}

func Wrap(l *slog.Logger) Interface {
	return &slogAdapter{base: l}
}

// NewNopLogger discards everything.
func NewNopLogger() Interface {
	return Wrap(slog.New(slog.DiscardHandler))
}

func (a *slogAdapter) log(level slog.Level, msg string, keysAndValues []interface{}) {
	ctx := context.Background()
	if !a.base.Enabled(ctx, level) {
		return
	}
	a.base.Log(ctx, level, msg, keysAndValues...)
}

func (a *slogAdapter) Debugw(msg string, keysAndValues ...interface{}) {
	a.log(slog.LevelDebug, msg, keysAndValues)
}

func (a *slogAdapter) Infow(msg string, keysAndValues ...interface{}) {
	a.log(slog.LevelInfo, msg, keysAndValues)
}

func (a *slogAdapter) Warnw(msg string, keysAndValues ...interface{}) {
	a.log(slog.LevelWarn, msg, keysAndValues)
}

func (a *slogAdapter) Errorw(msg string, keysAndValues ...interface{}) {
	a.log(slog.LevelError, msg, keysAndValues)
}

func (a *slogAdapter) With(keysAndValues ...interface{}) Interface {
	return &slogAdapter{base: a.base.With(keysAndValues...)}
}
