// Package log provides leveled logging with a swappable package-level
// logger, so callers can route output through golog (see NewGologLogger)
// or a test buffer without threading a logger through every constructor.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

// LogLevel represents logging severity.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	// LogLevelNone disables all logging.
	LogLevelNone
)

// Logger is the logging interface used across personaforge packages.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// DefaultLogger implements Logger on Go's standard log package.
type DefaultLogger struct {
	logger *log.Logger
	level  LogLevel
}

// NewDefaultLogger creates a logger writing to stderr.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return NewCustomLogger(os.Stderr, level)
}

// NewCustomLogger creates a logger with custom output.
func NewCustomLogger(out io.Writer, level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(out, "[personaforge] ", log.LstdFlags),
		level:  level,
	}
}

func (l *DefaultLogger) Debug(format string, v ...any) {
	if l.level <= LogLevelDebug {
		l.logger.Printf("[DEBUG] "+format, v...)
	}
}

func (l *DefaultLogger) Info(format string, v ...any) {
	if l.level <= LogLevelInfo {
		l.logger.Printf("[INFO] "+format, v...)
	}
}

func (l *DefaultLogger) Warn(format string, v ...any) {
	if l.level <= LogLevelWarn {
		l.logger.Printf("[WARN] "+format, v...)
	}
}

func (l *DefaultLogger) Error(format string, v ...any) {
	if l.level <= LogLevelError {
		l.logger.Printf("[ERROR] "+format, v...)
	}
}

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

// ParseLevel converts a level name ("debug", "info", ...) to a LogLevel.
// Unknown names fall back to LogLevelInfo.
func ParseLevel(name string) LogLevel {
	switch name {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn":
		return LogLevelWarn
	case "error":
		return LogLevelError
	case "none", "disable":
		return LogLevelNone
	default:
		return LogLevelInfo
	}
}

var defaultLogger Logger = NewDefaultLogger(LogLevelInfo)

// SetDefaultLogger sets the package-level logger.
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the current package-level logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

// Debug logs a debug message using the package-level logger.
func Debug(format string, v ...any) {
	defaultLogger.Debug(format, v...)
}

// Info logs an informational message using the package-level logger.
func Info(format string, v ...any) {
	defaultLogger.Info(format, v...)
}

// Warn logs a warning message using the package-level logger.
func Warn(format string, v ...any) {
	defaultLogger.Warn(format, v...)
}

// Error logs an error message using the package-level logger.
func Error(format string, v ...any) {
	defaultLogger.Error(format, v...)
}
