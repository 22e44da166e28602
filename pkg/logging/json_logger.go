package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// File names written under LoggerConfig.Dir.
const (
	CombinedLogFile  = "combined.log"
	ErrorLogFile     = "error.log"
	ExecutionLogFile = "test-execution.log"
)

// Rotation defaults applied when LoggerConfig leaves them zero.
const (
	DefaultMaxSizeMB  = 5
	DefaultMaxBackups = 5
)

// LoggerConfig configures the JSONLogger.
type LoggerConfig struct {
	// Dir receives combined.log, error.log and test-execution.log.
	// When empty, everything goes to Output instead.
	Dir string
	// Output is used when Dir is empty; defaults to stdout.
	Output     io.Writer
	Level      LogLevel
	Verbose    bool
	Fields     map[string]any
	MaxSizeMB  int
	MaxBackups int
}

type jsonSink struct {
	mu        sync.Mutex
	closed    bool
	combined  zerolog.Logger
	errors    zerolog.Logger
	execution zerolog.Logger
	closers   []io.Closer
}

// JSONLogger implements Logger with JSON Lines output. Every entry
// lands in the combined stream, error-level entries are duplicated
// into the error stream and step/assertion/screenshot/test records
// into the execution stream.
type JSONLogger struct {
	sink    *jsonSink
	level   LogLevel
	verbose bool
	fields  map[string]any
}

// NewJSONLogger creates a new JSON logger. If Dir is empty, logs
// are written to Output (or stdout).
func NewJSONLogger(config LoggerConfig) (*JSONLogger, error) {
	sink := &jsonSink{
		errors:    zerolog.Nop(),
		execution: zerolog.Nop(),
	}

	if config.Dir == "" {
		out := config.Output
		if out == nil {
			out = os.Stdout
		}
		sink.combined = newZerolog(out)
	} else {
		if err := os.MkdirAll(config.Dir, 0755); err != nil {
			return nil, fmt.Errorf(
				"failed to create log directory: %w", err,
			)
		}
		maxSize := config.MaxSizeMB
		if maxSize <= 0 {
			maxSize = DefaultMaxSizeMB
		}
		maxBackups := config.MaxBackups
		if maxBackups <= 0 {
			maxBackups = DefaultMaxBackups
		}
		open := func(name string) zerolog.Logger {
			w := &lumberjack.Logger{
				Filename:   filepath.Join(config.Dir, name),
				MaxSize:    maxSize,
				MaxBackups: maxBackups,
			}
			sink.closers = append(sink.closers, w)
			return newZerolog(w)
		}
		sink.combined = open(CombinedLogFile)
		sink.errors = open(ErrorLogFile)
		sink.execution = open(ExecutionLogFile)
	}

	fields := config.Fields
	if fields == nil {
		fields = make(map[string]any)
	}

	return &JSONLogger{
		sink:    sink,
		level:   config.Level,
		verbose: config.Verbose,
		fields:  fields,
	}, nil
}

func newZerolog(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *JSONLogger) log(
	level LogLevel, kind RecordKind, msg string, fields []Field,
) {
	if level < l.level {
		return
	}

	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	if kind != "" {
		fields = recordFields(kind, fields...)
	}
	merged := mergeFields(l.fields, fields)
	zl := zerologLevel(level)

	s.combined.WithLevel(zl).Fields(merged).Msg(msg)
	if level == LevelError {
		s.errors.WithLevel(zl).Fields(merged).Msg(msg)
	}
	if kind != "" {
		s.execution.WithLevel(zl).Fields(merged).Msg(msg)
	}
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, "", msg, fields)
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, "", msg, fields)
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(LevelError, "", msg, fields)
}

// Debug logs a debug message only if verbose is enabled.
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	if l.verbose {
		l.log(LevelDebug, "", msg, fields)
	}
}

// WithFields returns a new Logger with additional default
// fields. The returned logger shares the underlying files.
func (l *JSONLogger) WithFields(fields ...Field) Logger {
	return &JSONLogger{
		sink:    l.sink,
		level:   l.level,
		verbose: l.verbose,
		fields:  mergeFields(l.fields, fields),
	}
}

// LogStep writes a step record.
func (l *JSONLogger) LogStep(step StepLog) {
	l.log(LevelInfo, RecordStep, step.Message(),
		[]Field{StringField("step", step.Description)})
}

// LogAssertion writes an assertion record.
func (l *JSONLogger) LogAssertion(a AssertionLog) {
	l.log(LevelInfo, RecordAssertion, a.Message(), []Field{
		StringField("assertion", a.Description),
		BoolField("passed", a.Passed),
	})
}

// LogScreenshot writes a screenshot record.
func (l *JSONLogger) LogScreenshot(shot ScreenshotLog) {
	l.log(LevelInfo, RecordScreenshot, shot.Message(),
		[]Field{StringField("path", shot.Path)})
}

// LogTest writes a test boundary record.
func (l *JSONLogger) LogTest(t TestLog) {
	fields := []Field{
		StringField("test", t.Name),
		StringField("phase", string(t.Phase)),
	}
	if t.Status != "" {
		fields = append(fields, StringField("status", t.Status))
	}
	l.log(LevelInfo, RecordTest, t.Message(), fields)
}

// Close closes the rotating files. Further log calls are dropped.
func (l *JSONLogger) Close() error {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
