package colors

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var (
	structuredMu             sync.Mutex
	structuredLoggingEnabled atomic.Bool
)

func init() {
	structuredLoggingEnabled.Store(true)
}

// StructuredLogLevel represents log level for structured logs.
type StructuredLogLevel string

const (
	LevelDebug StructuredLogLevel = "debug"
	LevelInfo  StructuredLogLevel = "info"
	LevelWarn  StructuredLogLevel = "warn"
	LevelError StructuredLogLevel = "error"
)

// Event describes one pipeline event, e.g. a fetch for a tab of a vertical.
type Event struct {
	Component string
	Action    string
	Status    string
	Err       error
	// RequestID correlates the event with a backend request.
	RequestID string
	Fields    map[string]any
}

// StructuredLogEntry is the JSON line written for an Event.
type StructuredLogEntry struct {
	Timestamp string             `json:"timestamp"`
	Level     StructuredLogLevel `json:"level"`
	Component string             `json:"component"`
	Action    string             `json:"action"`
	Status    string             `json:"status"`
	Error     string             `json:"error,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
	Fields    map[string]any     `json:"fields,omitempty"`
}

// DisableStructuredLogging turns structured stderr output off.
// The TUI calls this so JSON lines do not corrupt the screen.
func DisableStructuredLogging() {
	structuredLoggingEnabled.Store(false)
}

// EnableStructuredLogging turns structured stderr output back on.
func EnableStructuredLogging() {
	structuredLoggingEnabled.Store(true)
}

// Structured writes ev as one JSON line to stderr when debug mode is on.
func Structured(level StructuredLogLevel, ev Event) {
	if !debugEnabled || !structuredLoggingEnabled.Load() {
		return
	}

	entry := StructuredLogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: ev.Component,
		Action:    ev.Action,
		Status:    ev.Status,
		RequestID: ev.RequestID,
		Fields:    ev.Fields,
	}
	if ev.Err != nil {
		entry.Error = ev.Err.Error()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		errorFallback(fmt.Sprintf("failed to marshal structured log: %v", err))
		return
	}

	structuredMu.Lock()
	defer structuredMu.Unlock()
	emit(stderr, "structured", "%s\n", data)
}

// StructuredDebug logs a structured debug entry.
func StructuredDebug(ev Event) { Structured(LevelDebug, ev) }

// StructuredInfo logs a structured info entry.
func StructuredInfo(ev Event) { Structured(LevelInfo, ev) }

// StructuredWarn logs a structured warning entry.
func StructuredWarn(ev Event) { Structured(LevelWarn, ev) }

// StructuredError logs a structured error entry.
func StructuredError(ev Event) { Structured(LevelError, ev) }
