package logging

import (
	"strings"
	"sync"
)

// Entry is one record captured by a MemoryLogger.
type Entry struct {
	Level   LogLevel
	Kind    RecordKind
	Message string
	Fields  map[string]any
}

type memoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

// MemoryLogger keeps every record in memory. Loggers derived via
// WithFields share the same store.
type MemoryLogger struct {
	store  *memoryStore
	fields map[string]any
}

// NewMemoryLogger creates an empty in-memory logger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{
		store:  &memoryStore{},
		fields: make(map[string]any),
	}
}

func (m *MemoryLogger) add(
	level LogLevel, kind RecordKind, msg string, fields []Field,
) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.entries = append(m.store.entries, Entry{
		Level:   level,
		Kind:    kind,
		Message: msg,
		Fields:  mergeFields(m.fields, fields),
	})
}

// Info records an informational message.
func (m *MemoryLogger) Info(msg string, fields ...Field) {
	m.add(LevelInfo, "", msg, fields)
}

// Warn records a warning message.
func (m *MemoryLogger) Warn(msg string, fields ...Field) {
	m.add(LevelWarn, "", msg, fields)
}

// Error records an error message.
func (m *MemoryLogger) Error(msg string, fields ...Field) {
	m.add(LevelError, "", msg, fields)
}

// Debug records a debug message.
func (m *MemoryLogger) Debug(msg string, fields ...Field) {
	m.add(LevelDebug, "", msg, fields)
}

// WithFields returns a logger sharing this store.
func (m *MemoryLogger) WithFields(fields ...Field) Logger {
	return &MemoryLogger{
		store:  m.store,
		fields: mergeFields(m.fields, fields),
	}
}

// LogStep records a step.
func (m *MemoryLogger) LogStep(step StepLog) {
	m.add(LevelInfo, RecordStep, step.Message(), nil)
}

// LogAssertion records an assertion outcome.
func (m *MemoryLogger) LogAssertion(a AssertionLog) {
	m.add(LevelInfo, RecordAssertion, a.Message(),
		[]Field{BoolField("passed", a.Passed)})
}

// LogScreenshot records a screenshot.
func (m *MemoryLogger) LogScreenshot(shot ScreenshotLog) {
	m.add(LevelInfo, RecordScreenshot, shot.Message(),
		[]Field{StringField("path", shot.Path)})
}

// LogTest records a test boundary.
func (m *MemoryLogger) LogTest(t TestLog) {
	m.add(LevelInfo, RecordTest, t.Message(), nil)
}

// Close is a no-op.
func (m *MemoryLogger) Close() error { return nil }

// Entries returns a copy of every record so far.
func (m *MemoryLogger) Entries() []Entry {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	out := make([]Entry, len(m.store.entries))
	copy(out, m.store.entries)
	return out
}

// Filter returns the records for which keep is true.
func (m *MemoryLogger) Filter(keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range m.Entries() {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// Kind returns records of the given kind.
func (m *MemoryLogger) Kind(kind RecordKind) []Entry {
	return m.Filter(func(e Entry) bool { return e.Kind == kind })
}

// Level returns plain messages logged at level.
func (m *MemoryLogger) Level(level LogLevel) []Entry {
	return m.Filter(func(e Entry) bool {
		return e.Kind == "" && e.Level == level
	})
}

// Messages returns the message text of every record.
func (m *MemoryLogger) Messages() []string {
	entries := m.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

// Contains reports whether any message contains substr.
func (m *MemoryLogger) Contains(substr string) bool {
	for _, msg := range m.Messages() {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

// Reset discards all records.
func (m *MemoryLogger) Reset() {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.entries = nil
}
