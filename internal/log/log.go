package log

import (
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
)

// New returns a console logger filtered at the given level
// ("debug", "info", "warn", "error").
func New(level string) arbor.ILogger {
	l := arbor.NewLogger()

	l = l.WithConsoleWriter(models.WriterConfiguration{
		Type:             models.LogWriterTypeConsole,
		TimeFormat:       "15:04:05",
		TextOutput:       true,
		DisableTimestamp: false,
	})

	l = l.WithLevelFromString(level)

	return l
}

// Discard returns a logger with no writers attached.
func Discard() arbor.ILogger {
	return arbor.NewLogger()
}

// NewRunID returns an identifier that ties together the log lines of
// one run.
func NewRunID() string {
	return uuid.NewString()
}
