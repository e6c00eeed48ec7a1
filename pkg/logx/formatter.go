package logx

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Fields is structured context attached to an entry.
type Fields map[string]any

type LogEntry struct {
	Level     Level
	Message   string
	Fields    Fields
	Error     error
	Timestamp time.Time
	Caller    string
}

type Formatter interface {
	Format(entry *LogEntry) ([]byte, error)
}

func formatTimestamp(t time.Time, layout string) string {
	if layout == "unix" {
		return strconv.FormatInt(t.Unix(), 10)
	}
	return t.Format(layout)
}

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
	colorCyan  = "\033[36m"
)

var levelColors = map[Level]string{
	LevelTrace: "\033[90m",
	LevelDebug: "\033[1;36m",
	LevelInfo:  "\033[1;32m",
	LevelWarn:  "\033[1;33m",
	LevelError: "\033[1;31m",
	LevelFatal: "\033[1;31m",
}

// ConsoleFormatter renders one human-readable line per entry. Fields are
// printed in key order so lines are stable.
type ConsoleFormatter struct {
	config *Config
}

func (f *ConsoleFormatter) paint(color, s string) string {
	if !f.config.EnableColors {
		return s
	}
	return color + s + colorReset
}

func (f *ConsoleFormatter) Format(entry *LogEntry) ([]byte, error) {
	var b strings.Builder

	if f.config.EnableTimestamp {
		b.WriteString(f.paint(colorGray, formatTimestamp(entry.Timestamp, f.config.TimeFormat)))
		b.WriteByte(' ')
	}

	b.WriteString(f.paint(levelColors[entry.Level], fmt.Sprintf("[%-5s]", entry.Level)))
	b.WriteByte(' ')

	if entry.Caller != "" {
		b.WriteString(f.paint(colorGray, "["+entry.Caller+"]"))
		b.WriteByte(' ')
	}

	b.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = fmt.Sprintf("%s=%v", k, entry.Fields[k])
		}
		b.WriteByte(' ')
		b.WriteString(f.paint(colorCyan, strings.Join(pairs, " ")))
	}

	if entry.Error != nil {
		b.WriteString(f.paint(colorRed, " error="+entry.Error.Error()))
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// JSONFormatter renders one JSON object per line.
type JSONFormatter struct {
	config *Config
}

func (f *JSONFormatter) Format(entry *LogEntry) ([]byte, error) {
	data := make(map[string]any, len(entry.Fields)+5)
	for k, v := range entry.Fields {
		data[k] = v
	}

	data["level"] = entry.Level.String()
	data["message"] = entry.Message
	if f.config.EnableTimestamp {
		if f.config.TimeFormat == "unix" {
			data["timestamp"] = entry.Timestamp.Unix()
		} else {
			data["timestamp"] = entry.Timestamp.Format(time.RFC3339Nano)
		}
	}
	if entry.Caller != "" {
		data["caller"] = entry.Caller
	}
	if entry.Error != nil {
		data["error"] = entry.Error.Error()
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
