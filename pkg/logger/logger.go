// Package logger implements the structured, leveled logger shared by all
// remold commands. Output goes to stderr as either a human-readable line or
// a JSON object per entry.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the canonical upper-case name of the level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a flag value to a Level, defaulting to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Config holds logger configuration.
type Config struct {
	Level     Level
	UseColor  bool
	JSON      bool
	Component string
	DryRun    bool
}

// Logger is a leveled logger instance.
type Logger struct {
	config Config
	out    *log.Logger
}

var defaultLogger *Logger

// Initialize sets up the package-level default logger.
func Initialize(config Config) {
	defaultLogger = New(config)
}

// New returns a logger writing to stderr with the given configuration.
func New(config Config) *Logger {
	return &Logger{
		config: config,
		out:    log.New(os.Stderr, "", 0),
	}
}

// SetOutput redirects the default logger, primarily for tests.
func SetOutput(w io.Writer) {
	if defaultLogger != nil {
		defaultLogger.out.SetOutput(w)
	}
}

// Field is a structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Strings creates a string-slice field.
func Strings(key string, values []string) Field {
	return Field{Key: key, Value: values}
}

// Err creates an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err.Error()}
}

type entry struct {
	Time      time.Time              `json:"time"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Component string                 `json:"component,omitempty"`
	DryRun    bool                   `json:"dry_run,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Log writes an entry at the given level.
func (l *Logger) Log(level Level, message string, fields ...Field) {
	if level < l.config.Level {
		return
	}

	e := entry{
		Time:      time.Now(),
		Level:     level.String(),
		Message:   message,
		Component: l.config.Component,
		DryRun:    l.config.DryRun,
	}
	if len(fields) > 0 {
		e.Fields = make(map[string]interface{}, len(fields))
		for _, f := range fields {
			e.Fields[f.Key] = f.Value
		}
	}

	if l.config.JSON {
		data, _ := json.Marshal(e)
		l.out.Print(string(data))
		return
	}
	l.out.Print(l.formatPretty(e))
}

func (l *Logger) formatPretty(e entry) string {
	var b strings.Builder

	b.WriteString(e.Time.Format("2006-01-02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(l.colorize(e.Level))
	b.WriteString("]")

	if e.Component != "" {
		fmt.Fprintf(&b, " %s:", e.Component)
	}
	if e.DryRun {
		b.WriteString(" [DRY-RUN]")
	}
	b.WriteString(" ")
	b.WriteString(e.Message)

	if len(e.Fields) > 0 {
		b.WriteString(" {")
		first := true
		for k, v := range e.Fields {
			if !first {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, v)
			first = false
		}
		b.WriteString("}")
	}

	return b.String()
}

func (l *Logger) colorize(level string) string {
	if !l.config.UseColor {
		return level
	}
	switch level {
	case "DEBUG":
		return "\033[36m" + level + "\033[0m"
	case "INFO":
		return "\033[32m" + level + "\033[0m"
	case "WARN":
		return "\033[33m" + level + "\033[0m"
	case "ERROR":
		return "\033[31m" + level + "\033[0m"
	default:
		return level
	}
}

// Debug logs at debug level on the default logger.
func Debug(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(DebugLevel, message, fields...)
	}
}

// Info logs at info level on the default logger.
func Info(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(InfoLevel, message, fields...)
	} else {
		fmt.Fprintf(os.Stderr, "[INFO] remold: %s\n", message)
	}
}

// Warn logs at warn level on the default logger.
func Warn(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(WarnLevel, message, fields...)
	}
}

// Error logs at error level on the default logger.
func Error(message string, fields ...Field) {
	if defaultLogger != nil {
		defaultLogger.Log(ErrorLevel, message, fields...)
	} else {
		fmt.Fprintf(os.Stderr, "[ERROR] remold: %s\n", message)
	}
}
