// Package cli holds the cobra commands behind the panelboard binary.
//
// Layout documents are created and changed with new, place and measure,
// rendered with export, and edited interactively with edit (terminal) or
// serve (HTTP). Every command shares one [CLI] value, which owns the
// logger and the lazily loaded configuration.
//
// Loggers travel in the command context: PersistentPreRunE attaches the
// CLI logger and commands read it back with loggerFromContext. The
// --verbose flag lowers the level to debug.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped records ("14:32:01.45") at level and above.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one operation for the closing info record.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// donef logs the formatted message with the elapsed time in milliseconds.
func (p *progress) donef(format string, args ...any) {
	p.logger.Info(fmt.Sprintf(format, args...), "elapsed", time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default() outside a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
