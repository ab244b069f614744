package contracts

import (
	"strings"
	"time"
)

// LogLevel represents the severity level for logging.
type LogLevel int

const (
	// InfoLevel is the default level: connections, tool registration, lifecycle.
	InfoLevel LogLevel = iota
	// DebugLevel adds one line per MIDI message written to the wire.
	DebugLevel
	// ErrorLevel reports failed sends, failed connections and invalid input.
	ErrorLevel
	// WarnLevel reports degraded states such as an output-only connection.
	WarnLevel
	// FatalLevel terminates the process after logging.
	FatalLevel
)

// ParseLogLevel converts a config or flag value into a LogLevel. Unknown names fall back to InfoLevel.
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// LogDestination specifies where the log messages should be directed.
type LogDestination string

const (
	// ConsoleLog writes to stderr. Stdout is reserved for the tool protocol.
	ConsoleLog LogDestination = "console"
	// FileLog appends to the file given to SetDestination.
	FileLog LogDestination = "file"
)

// Field is a typed key/value pair attached to a log line.
type Field interface {
	Bool(key string, val bool) Field
	Int(key string, val int) Field
	Float64(key string, val float64) Field
	String(key string, val string) Field
	Time(key string, val time.Time) Field
	Int64(key string, val int64) Field
	Error(key string, val error) Field
	Uint64(key string, val uint64) Field
	Uint8(key string, val uint8) Field
}

// Logger provides leveled, structured logging.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	Field() Field

	// With returns a logger that adds fields to every line it writes.
	With(fields ...Field) Logger

	SetLevel(level LogLevel)
	SetDestination(dest LogDestination, filePath ...string) error
}
