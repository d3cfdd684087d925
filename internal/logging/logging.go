// Package logging builds the kratos logger shared by the CLI components.
package logging

import (
	"io"

	"github.com/go-kratos/kratos/v2/log"
)

// New returns a logger writing to w. Debug records are only emitted when
// debug is set; otherwise only warnings and errors get through.
func New(w io.Writer, debug bool) log.Logger {
	level := log.LevelWarn
	if debug {
		level = log.LevelDebug
	}
	logger := log.With(log.NewStdLogger(w),
		"ts", log.DefaultTimestamp,
		"caller", log.DefaultCaller,
	)
	return log.NewFilter(logger, log.FilterLevel(level))
}

// Discard returns a logger that drops everything. Used when no logger is
// injected.
func Discard() log.Logger {
	return log.NewStdLogger(io.Discard)
}

// OrDiscard returns l, or a discarding logger if l is nil.
func OrDiscard(l log.Logger) log.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
