// Package cli implements the datacanvas command-line interface.
//
// Commands:
//   - render: draw records from a file, stdin, MongoDB or the built-in sample
//   - sample: print the built-in sample records
//   - serve: run the HTTP API
//   - cache: inspect or clear the artifact cache
//   - config: show the effective configuration
//
// Every command accepts --verbose (-v) for debug logging, which also traces
// pipeline stages and cache traffic.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger with short "15:04:05.00" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs a message with the time elapsed since it was created.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Loaded 4 records (12ms)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg+" ("+time.Since(p.start).Round(time.Millisecond).String()+")", keyvals...)
}
