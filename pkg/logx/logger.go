package logx

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger is a leveled logger writing formatted entries to a single output.
// Safe for concurrent use.
type Logger struct {
	mu        sync.Mutex
	level     Level
	out       io.Writer
	formatter Formatter
	exit      func(int)
}

// NewLogger builds a logger. Format is chosen by LOG_FORMAT ("json" or
// console otherwise), level by LOG_LEVEL.
func NewLogger() *Logger {
	var f Formatter = &ConsoleFormatter{}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		f = &JSONFormatter{}
	}
	return &Logger{
		level:     ParseLevel(os.Getenv("LOG_LEVEL")),
		out:       os.Stderr,
		formatter: f,
		exit:      os.Exit,
	}
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
}

func (l *Logger) SetFormatter(f Formatter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.formatter = f
}

func (l *Logger) log(level Level, msg string, fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}
	l.out.Write(l.formatter.Format(level, msg, fields, time.Now()))
}

// WithFields returns an Entry carrying structured context for the next call.
func (l *Logger) WithFields(fields Fields) *Entry {
	return &Entry{logger: l, fields: fields}
}

// WithError is shorthand for WithFields(Fields{"error": err}).
func (l *Logger) WithError(err error) *Entry {
	return l.WithFields(Fields{"error": err})
}
