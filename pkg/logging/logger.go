// Package logging provides structured logging for login-flow
// test runs: steps, assertions, screenshots and test boundaries are
// recorded alongside ordinary leveled messages, with rotating JSON
// files, a console view and multi-destination output.
package logging

import (
	"fmt"
	"strings"
	"sync"
)

// Logger defines the interface for structured test-run logging.
type Logger interface {
	// Info logs an informational message.
	Info(msg string, fields ...Field)

	// Warn logs a warning message.
	Warn(msg string, fields ...Field)

	// Error logs an error message.
	Error(msg string, fields ...Field)

	// Debug logs a debug-level message.
	Debug(msg string, fields ...Field)

	// WithFields returns a Logger with additional default
	// fields attached to every subsequent log entry.
	WithFields(fields ...Field) Logger

	// LogStep records the start of a user-visible step.
	LogStep(step StepLog)

	// LogAssertion records a pass/fail assertion outcome.
	LogAssertion(assertion AssertionLog)

	// LogScreenshot records a saved screenshot.
	LogScreenshot(shot ScreenshotLog)

	// LogTest records a test start or end boundary.
	LogTest(test TestLog)

	// Close flushes any buffers and releases resources.
	Close() error
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// RecordKind tags the specialised records in log output.
type RecordKind string

const (
	RecordStep       RecordKind = "step"
	RecordAssertion  RecordKind = "assertion"
	RecordScreenshot RecordKind = "screenshot"
	RecordTest       RecordKind = "test"
)

// RecordField is the field key carrying a RecordKind.
const RecordField = "record"

// StepLog describes a step about to run.
type StepLog struct {
	Description string `json:"description"`
}

// AssertionLog describes an evaluated assertion.
type AssertionLog struct {
	Description string `json:"description"`
	Passed      bool   `json:"passed"`
}

// ScreenshotLog describes a screenshot written to disk.
type ScreenshotLog struct {
	Path string `json:"path"`
	Name string `json:"name,omitempty"`
}

// TestPhase marks which boundary a TestLog represents.
type TestPhase string

const (
	PhaseStarted TestPhase = "started"
	PhaseEnded   TestPhase = "ended"
)

// TestLog describes a test boundary.
type TestLog struct {
	Name   string    `json:"name"`
	Phase  TestPhase `json:"phase"`
	Status string    `json:"status,omitempty"`
}

// Message renders the step record.
func (s StepLog) Message() string {
	return "STEP: " + s.Description
}

// Message renders the assertion record.
func (a AssertionLog) Message() string {
	status := "PASSED"
	if !a.Passed {
		status = "FAILED"
	}
	return fmt.Sprintf("ASSERTION [%s]: %s", status, a.Description)
}

// Message renders the screenshot record.
func (s ScreenshotLog) Message() string {
	return "Screenshot saved: " + s.Path
}

// Message renders the test boundary record.
func (t TestLog) Message() string {
	if t.Phase == PhaseEnded {
		return fmt.Sprintf(
			"========== TEST ENDED: %s - Status: %s ==========",
			t.Name, strings.ToUpper(t.Status),
		)
	}
	return fmt.Sprintf("========== TEST STARTED: %s ==========", t.Name)
}

// LogLevel represents logging severity levels.
type LogLevel int

const (
	// LevelDebug is the most verbose level.
	LevelDebug LogLevel = iota
	// LevelInfo is the default level.
	LevelInfo
	// LevelWarn indicates potential issues.
	LevelWarn
	// LevelError indicates failures.
	LevelError
)

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a LOG_LEVEL style string to a LogLevel.
// Unrecognised values map to LevelInfo.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "trace":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error", "fatal":
		return LevelError
	default:
		return LevelInfo
	}
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NullLogger{}
	initOnce      sync.Once
)

// Init installs the process-wide logger. Only the first call has
// any effect; it reports whether this call installed l.
func Init(l Logger) bool {
	installed := false
	initOnce.Do(func() {
		if l == nil {
			return
		}
		defaultMu.Lock()
		defaultLogger = l
		defaultMu.Unlock()
		installed = true
	})
	return installed
}

// Default returns the process-wide logger, a NullLogger until Init
// has been called.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func recordFields(kind RecordKind, fields ...Field) []Field {
	return append([]Field{{Key: RecordField, Value: string(kind)}}, fields...)
}
