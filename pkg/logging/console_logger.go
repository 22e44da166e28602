package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// ConsoleLogger writes human-readable lines through zerolog's
// console writer. Colour is used only on an interactive terminal
// and never when NO_COLOR is set.
type ConsoleLogger struct {
	out     zerolog.Logger
	verbose bool
	fields  map[string]any
}

// NewConsoleLogger creates a console logger on stdout. When verbose
// is true, debug messages are emitted.
func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return NewConsoleLoggerTo(os.Stdout, verbose)
}

// NewConsoleLoggerTo creates a console logger writing to w.
func NewConsoleLoggerTo(w io.Writer, verbose bool) *ConsoleLogger {
	cw := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    !colorEnabled(w),
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return &ConsoleLogger{
		out: zerolog.New(zerolog.SyncWriter(cw)).
			Level(level).
			With().Timestamp().Logger(),
		verbose: verbose,
		fields:  make(map[string]any),
	}
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (c *ConsoleLogger) log(level LogLevel, msg string, fields []Field) {
	c.out.WithLevel(zerologLevel(level)).
		Fields(mergeFields(c.fields, fields)).
		Msg(msg)
}

// Info logs an informational message.
func (c *ConsoleLogger) Info(msg string, fields ...Field) {
	c.log(LevelInfo, msg, fields)
}

// Warn logs a warning message.
func (c *ConsoleLogger) Warn(msg string, fields ...Field) {
	c.log(LevelWarn, msg, fields)
}

// Error logs an error message.
func (c *ConsoleLogger) Error(msg string, fields ...Field) {
	c.log(LevelError, msg, fields)
}

// Debug logs a debug message only if verbose is enabled.
func (c *ConsoleLogger) Debug(msg string, fields ...Field) {
	if c.verbose {
		c.log(LevelDebug, msg, fields)
	}
}

// WithFields returns a new Logger with additional default
// fields.
func (c *ConsoleLogger) WithFields(fields ...Field) Logger {
	return &ConsoleLogger{
		out:     c.out,
		verbose: c.verbose,
		fields:  mergeFields(c.fields, fields),
	}
}

// LogStep prints the step line.
func (c *ConsoleLogger) LogStep(step StepLog) {
	c.log(LevelInfo, step.Message(), nil)
}

// LogAssertion prints the assertion outcome.
func (c *ConsoleLogger) LogAssertion(a AssertionLog) {
	c.log(LevelInfo, a.Message(), nil)
}

// LogScreenshot prints the screenshot path.
func (c *ConsoleLogger) LogScreenshot(shot ScreenshotLog) {
	c.log(LevelInfo, shot.Message(), nil)
}

// LogTest prints the test boundary banner.
func (c *ConsoleLogger) LogTest(t TestLog) {
	c.log(LevelInfo, t.Message(), nil)
}

// Close is a no-op for ConsoleLogger.
func (c *ConsoleLogger) Close() error {
	return nil
}
