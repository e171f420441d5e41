package mimemagic

import (
	"io"
	"log/slog"
	"sync/atomic"
)

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetLogger replaces the package logger. Output is discarded until this is
// called. Passing nil restores the discarding logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Store(l)
}

func log() *slog.Logger {
	return logger.Load()
}
