package logx

import "fmt"

// Entry is an in-flight log statement with accumulated fields.
type Entry struct {
	logger *Logger
	fields Fields
}

// WithField adds one field, returning a new entry so parents stay unchanged.
func (e *Entry) WithField(key string, value any) *Entry {
	merged := make(Fields, len(e.fields)+1)
	for k, v := range e.fields {
		merged[k] = v
	}
	merged[key] = value
	return &Entry{logger: e.logger, fields: merged}
}

func (e *Entry) Debug(msg string) { e.logger.log(LevelDebug, msg, e.fields) }
func (e *Entry) Info(msg string)  { e.logger.log(LevelInfo, msg, e.fields) }
func (e *Entry) Warn(msg string)  { e.logger.log(LevelWarn, msg, e.fields) }
func (e *Entry) Error(msg string) { e.logger.log(LevelError, msg, e.fields) }

func (e *Entry) Debugf(format string, args ...any) {
	e.logger.log(LevelDebug, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Infof(format string, args ...any) {
	e.logger.log(LevelInfo, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Warnf(format string, args ...any) {
	e.logger.log(LevelWarn, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Errorf(format string, args ...any) {
	e.logger.log(LevelError, fmt.Sprintf(format, args...), e.fields)
}
