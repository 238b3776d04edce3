package gr

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gr/program"
	"github.com/gogpu/gr/text"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gr and its sub-packages.
// By default gr produces no log output. Pass nil to restore silence.
//
// Log levels used by gr:
//   - [slog.LevelDebug]: dropped draws, path renderer selection, batch recording
//   - [slog.LevelInfo]: lifecycle events (caps resolved, manager abandoned)
//   - [slog.LevelWarn]: non-fatal failures (executor errors during flush)
//
// Example:
//
//	gr.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	program.SetLogger(l)
	text.SetLogger(l)
}

// Logger returns the current logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
