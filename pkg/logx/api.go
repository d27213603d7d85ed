// Package logx is the process-wide structured logger. Packages log through
// the default logger; main configures level and format once at startup.
package logx

import (
	"fmt"
	"io"
)

var defaultLogger = NewLogger()

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(l *Logger) {
	defaultLogger = l
}

// SetLevel sets the level of the default logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetOutput sets the output of the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

func Trace(msg string) { defaultLogger.log(LevelTrace, msg, nil) }
func Debug(msg string) { defaultLogger.log(LevelDebug, msg, nil) }
func Info(msg string)  { defaultLogger.log(LevelInfo, msg, nil) }
func Warn(msg string)  { defaultLogger.log(LevelWarn, msg, nil) }
func Error(msg string) { defaultLogger.log(LevelError, msg, nil) }

func Fatal(msg string) {
	defaultLogger.log(LevelFatal, msg, nil)
	defaultLogger.exit(1)
}

func Tracef(format string, args ...any) {
	defaultLogger.log(LevelTrace, fmt.Sprintf(format, args...), nil)
}

func Debugf(format string, args ...any) {
	defaultLogger.log(LevelDebug, fmt.Sprintf(format, args...), nil)
}

func Infof(format string, args ...any) {
	defaultLogger.log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

func Warnf(format string, args ...any) {
	defaultLogger.log(LevelWarn, fmt.Sprintf(format, args...), nil)
}

func Errorf(format string, args ...any) {
	defaultLogger.log(LevelError, fmt.Sprintf(format, args...), nil)
}

func Fatalf(format string, args ...any) {
	defaultLogger.log(LevelFatal, fmt.Sprintf(format, args...), nil)
	defaultLogger.exit(1)
}

// WithFields creates an entry with structured context on the default logger.
func WithFields(fields Fields) *Entry {
	return defaultLogger.WithFields(fields)
}

// WithError creates an entry carrying an error field on the default logger.
func WithError(err error) *Entry {
	return defaultLogger.WithError(err)
}
