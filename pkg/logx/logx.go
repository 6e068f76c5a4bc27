package logx

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// Level controls which messages are emitted.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	currentLevel atomic.Int32
	std          = log.New(os.Stdout, "", log.LstdFlags)
)

func init() {
	currentLevel.Store(int32(LevelInfo))
}

// SetLevel sets the minimum level that will be logged.
func SetLevel(l Level) {
	currentLevel.Store(int32(l))
}

func enabled(l Level) bool {
	return int32(l) >= currentLevel.Load()
}

func output(l Level, tag, msg string) {
	if !enabled(l) {
		return
	}
	std.Printf("%s %s", tag, msg)
}

func Debug(msg string)                  { output(LevelDebug, "DEBUG", msg) }
func Info(msg string)                   { output(LevelInfo, "INFO", msg) }
func Warn(msg string)                   { output(LevelWarn, "WARN", msg) }
func Error(msg string)                  { output(LevelError, "ERROR", msg) }
func Debugf(format string, args ...any) { output(LevelDebug, "DEBUG", fmt.Sprintf(format, args...)) }
func Infof(format string, args ...any)  { output(LevelInfo, "INFO", fmt.Sprintf(format, args...)) }
func Warnf(format string, args ...any)  { output(LevelWarn, "WARN", fmt.Sprintf(format, args...)) }
func Errorf(format string, args ...any) { output(LevelError, "ERROR", fmt.Sprintf(format, args...)) }

// Fatalf logs the message and exits the process.
func Fatalf(format string, args ...any) {
	std.Printf("FATAL %s", fmt.Sprintf(format, args...))
	os.Exit(1)
}

// Fields attaches structured key/value context to a log entry.
type Fields map[string]any

// Entry is a logger carrying a fixed set of fields.
type Entry struct {
	fields Fields
}

// WithFields returns an entry that prefixes every message with the fields.
func WithFields(fields Fields) *Entry {
	return &Entry{fields: fields}
}

func (e *Entry) prefix() string {
	if len(e.fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.fields[k]))
	}
	return "[" + strings.Join(parts, " ") + "] "
}

func (e *Entry) Debugf(format string, args ...any) {
	output(LevelDebug, "DEBUG", e.prefix()+fmt.Sprintf(format, args...))
}

func (e *Entry) Infof(format string, args ...any) {
	output(LevelInfo, "INFO", e.prefix()+fmt.Sprintf(format, args...))
}

func (e *Entry) Warnf(format string, args ...any) {
	output(LevelWarn, "WARN", e.prefix()+fmt.Sprintf(format, args...))
}

func (e *Entry) Errorf(format string, args ...any) {
	output(LevelError, "ERROR", e.prefix()+fmt.Sprintf(format, args...))
}
