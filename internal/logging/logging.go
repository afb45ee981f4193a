// Package logging configures charmbracelet/log for the engine and hands out
// component-scoped loggers with consistent prefixes.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New creates the base logger for the process at the given level.
// Unknown levels fall back to info.
func New(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	})
	logger.SetLevel(parseLevel(level))
	return logger
}

// ForComponent returns a child logger prefixed with the component name.
func ForComponent(base *log.Logger, name string) *log.Logger {
	return base.WithPrefix(name)
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Preview truncates s for log output.
func Preview(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
