package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fadedpez/uno/internal/types"
)

// Level represents a logging level
type Level = log.Level

const (
	DEBUG = log.DebugLevel
	INFO  = log.InfoLevel
	WARN  = log.WarnLevel
	ERROR = log.ErrorLevel
)

// Logger is a leveled printf-style logger
type Logger struct {
	base *log.Logger
}

// NewLogger creates a logger writing to stderr at the given level
func NewLogger(level Level) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a logger writing to w
func NewLoggerTo(w io.Writer, level Level) *Logger {
	return &Logger{
		base: log.NewWithOptions(w, log.Options{
			Level:           level,
			ReportTimestamp: true,
			TimeFormat:      "2006-01-02 15:04:05.000",
		}),
	}
}

// ParseLevel maps a LOG_LEVEL value to a Level, defaulting to INFO
func ParseLevel(s string) Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return INFO
	}
	return level
}

// With returns a logger that prefixes every line with the given component name
func (l *Logger) With(component string) *Logger {
	return &Logger{base: l.base.WithPrefix(component)}
}

// SetLevel changes the minimum level logged
func (l *Logger) SetLevel(level Level) {
	l.base.SetLevel(level)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.base.Debugf(format, v...)
}

// Info logs an info message
func (l *Logger) Info(format string, v ...interface{}) {
	l.base.Infof(format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.base.Warnf(format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.base.Errorf(format, v...)
}

// LogError logs err, adding code and cause fields for a GameError
func (l *Logger) LogError(err error) {
	var gameErr *types.GameError
	if types.As(err, &gameErr) {
		keyvals := []interface{}{"code", gameErr.Code}
		if gameErr.Err != nil {
			keyvals = append(keyvals, "cause", gameErr.Err)
		}
		l.base.Error(gameErr.Message, keyvals...)
		return
	}
	l.base.Error("unexpected error", "err", err)
}

// Default logger instance
var Default = NewLogger(INFO)
