package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Fields is free-form structured context attached to a log entry.
type Fields map[string]any

// Formatter renders a finished entry into bytes ready for the output.
type Formatter interface {
	Format(level Level, msg string, fields Fields, at time.Time) []byte
}

// ConsoleFormatter renders human-readable single-line output for development.
type ConsoleFormatter struct{}

func (f *ConsoleFormatter) Format(level Level, msg string, fields Fields, at time.Time) []byte {
	var b strings.Builder
	b.WriteString(at.Format("2006-01-02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)

	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%v", k, fields[k])
		}
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// JSONFormatter renders one JSON object per line for log collectors.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(level Level, msg string, fields Fields, at time.Time) []byte {
	payload := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		payload[k] = v
	}
	payload["time"] = at.Format(time.RFC3339)
	payload["level"] = level.String()
	payload["message"] = msg

	out, err := json.Marshal(payload)
	if err != nil {
		out = []byte(fmt.Sprintf(`{"level":"%s","message":%q}`, level, msg))
	}
	return append(out, '\n')
}
