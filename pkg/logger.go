package pkg

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// defaultLogger is the package-wide logrus instance. Enumeration code logs
// through the package-level helpers below so callers can retarget output
// and level in one place.
var defaultLogger *log.Logger

func init() {
	defaultLogger = log.New()
	defaultLogger.SetLevel(log.InfoLevel)
	defaultLogger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
}

// SetLogLevelFromString sets the level from a flag/config string.
func SetLogLevelFromString(levelStr string) error {
	switch strings.ToLower(levelStr) {
	case "debug":
		defaultLogger.SetLevel(log.DebugLevel)
	case "info":
		defaultLogger.SetLevel(log.InfoLevel)
	case "warn", "warning":
		defaultLogger.SetLevel(log.WarnLevel)
	case "error":
		defaultLogger.SetLevel(log.ErrorLevel)
	default:
		return fmt.Errorf("invalid log level: %s", levelStr)
	}
	return nil
}

// SetOutput redirects the default logger's output.
func SetOutput(output io.Writer) {
	defaultLogger.SetOutput(output)
}

// Debug logs a debug message
func Debug(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	defaultLogger.Infof(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	defaultLogger.Warnf(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

// WithFields starts a structured entry with multiple fields
func WithFields(fields log.Fields) *log.Entry {
	return defaultLogger.WithFields(fields)
}

// WithError starts a structured entry carrying an error field
func WithError(err error) *log.Entry {
	return defaultLogger.WithError(err)
}
