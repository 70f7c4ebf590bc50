// package shared defines configuration, storage bootstrap, errors and logging helpers
package shared

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NewLogger creates a [log.Logger] writing to w with timestamps and caller reporting.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{ReportTimestamp: true, ReportCaller: true})
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// ConfigureLogger applies the editorial log level and output format.
//
// "json" and "logfmt" switch the formatter; anything else keeps the styled text output.
func ConfigureLogger(l *log.Logger, c EditorialConfig) {
	l.SetLevel(c.Level())
	switch strings.ToLower(c.LogFormat) {
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.SetFormatter(log.LogfmtFormatter)
	default:
		l.SetFormatter(log.TextFormatter)
	}
}

// GenerateID returns a new v4 [uuid.UUID] as a string, used as the primary key of every entity.
func GenerateID() string {
	return uuid.New().String()
}
