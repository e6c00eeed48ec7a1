package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// Logger writes formatted entries to a single writer.
type Logger struct {
	mu        sync.Mutex
	level     Level
	config    Config
	formatter Formatter
	writer    io.Writer
	exitFunc  func(int)
}

func NewLogger(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var formatter Formatter = &ConsoleFormatter{config: cfg}
	if cfg.Format == FormatJSON {
		formatter = &JSONFormatter{config: cfg}
	}

	w := cfg.Output
	if w == nil {
		w = os.Stdout
	}

	return &Logger{
		level:     cfg.Level,
		config:    *cfg,
		formatter: formatter,
		writer:    w,
		exitFunc:  os.Exit,
	}
}

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	l.writer = w
	l.mu.Unlock()
}

func (l *Logger) WithField(key string, value any) *Entry {
	return newEntry(l).WithField(key, value)
}

func (l *Logger) WithFields(fields Fields) *Entry {
	return newEntry(l).WithFields(fields)
}

func (l *Logger) WithError(err error) *Entry {
	return newEntry(l).WithError(err)
}

func (l *Logger) log(level Level, msg string, fields Fields, err error) {
	if !l.GetLevel().Enabled(level) {
		return
	}

	entry := &LogEntry{
		Level:     level,
		Message:   msg,
		Fields:    fields,
		Error:     err,
		Timestamp: time.Now(),
	}
	if l.config.EnableCaller {
		entry.Caller = caller(3)
	}

	out, fmtErr := l.formatter.Format(entry)
	if fmtErr != nil {
		fmt.Fprintf(os.Stderr, "logx: format: %v\n", fmtErr)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, wErr := l.writer.Write(out); wErr != nil {
		fmt.Fprintf(os.Stderr, "logx: write: %v\n", wErr)
	}
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "???"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// ---------------------------------------------------------------------------
// Package-level logger
// ---------------------------------------------------------------------------

var std = NewLogger(LoadFromEnv())

func SetDefaultLogger(l *Logger) { std = l }
func GetDefaultLogger() *Logger  { return std }
func SetLevel(level Level)       { std.SetLevel(level) }
func SetOutput(w io.Writer)      { std.SetOutput(w) }

func Debug(msg string) { std.log(LevelDebug, msg, nil, nil) }
func Info(msg string)  { std.log(LevelInfo, msg, nil, nil) }
func Warn(msg string)  { std.log(LevelWarn, msg, nil, nil) }
func Error(msg string) { std.log(LevelError, msg, nil, nil) }

func Fatal(msg string) {
	std.log(LevelFatal, msg, nil, nil)
	std.exitFunc(1)
}

func Debugf(format string, args ...any) { std.log(LevelDebug, fmt.Sprintf(format, args...), nil, nil) }
func Infof(format string, args ...any)  { std.log(LevelInfo, fmt.Sprintf(format, args...), nil, nil) }
func Warnf(format string, args ...any)  { std.log(LevelWarn, fmt.Sprintf(format, args...), nil, nil) }
func Errorf(format string, args ...any) { std.log(LevelError, fmt.Sprintf(format, args...), nil, nil) }

func Fatalf(format string, args ...any) {
	std.log(LevelFatal, fmt.Sprintf(format, args...), nil, nil)
	std.exitFunc(1)
}

func WithFields(fields Fields) *Entry     { return std.WithFields(fields) }
func WithField(key string, v any) *Entry { return std.WithField(key, v) }
func WithError(err error) *Entry          { return std.WithError(err) }
