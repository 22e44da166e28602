package logging

import "strings"

// redactedMask replaces every secret occurrence; its fixed width
// hides the secret's length.
const redactedMask = "********"

// RedactingLogger is a decorator that removes sensitive strings,
// such as test account passwords, from messages, field values and
// record descriptions before passing them to the inner logger.
type RedactingLogger struct {
	inner   Logger
	secrets []string
}

// NewRedactingLogger creates a logger that redacts the given
// secrets. Empty secrets are ignored.
func NewRedactingLogger(
	inner Logger,
	secrets ...string,
) *RedactingLogger {
	kept := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return &RedactingLogger{
		inner:   OrNull(inner),
		secrets: kept,
	}
}

func (r *RedactingLogger) redact(msg string) string {
	result := msg
	for _, secret := range r.secrets {
		result = strings.ReplaceAll(result, secret, redactedMask)
	}
	return result
}

func (r *RedactingLogger) redactFields(fields []Field) []Field {
	result := make([]Field, len(fields))
	for i, f := range fields {
		if str, ok := f.Value.(string); ok {
			result[i] = Field{Key: f.Key, Value: r.redact(str)}
		} else {
			result[i] = f
		}
	}
	return result
}

// Info logs a redacted informational message.
func (r *RedactingLogger) Info(msg string, fields ...Field) {
	r.inner.Info(r.redact(msg), r.redactFields(fields)...)
}

// Warn logs a redacted warning message.
func (r *RedactingLogger) Warn(msg string, fields ...Field) {
	r.inner.Warn(r.redact(msg), r.redactFields(fields)...)
}

// Error logs a redacted error message.
func (r *RedactingLogger) Error(msg string, fields ...Field) {
	r.inner.Error(r.redact(msg), r.redactFields(fields)...)
}

// Debug logs a redacted debug message.
func (r *RedactingLogger) Debug(msg string, fields ...Field) {
	r.inner.Debug(r.redact(msg), r.redactFields(fields)...)
}

// WithFields returns a RedactingLogger wrapping a new inner
// logger with the given fields applied.
func (r *RedactingLogger) WithFields(fields ...Field) Logger {
	return &RedactingLogger{
		inner:   r.inner.WithFields(r.redactFields(fields)...),
		secrets: r.secrets,
	}
}

// LogStep logs a step with its description redacted.
func (r *RedactingLogger) LogStep(step StepLog) {
	step.Description = r.redact(step.Description)
	r.inner.LogStep(step)
}

// LogAssertion logs an assertion with its description redacted.
func (r *RedactingLogger) LogAssertion(a AssertionLog) {
	a.Description = r.redact(a.Description)
	r.inner.LogAssertion(a)
}

// LogScreenshot passes the record through unchanged.
func (r *RedactingLogger) LogScreenshot(shot ScreenshotLog) {
	r.inner.LogScreenshot(shot)
}

// LogTest logs a test boundary with its name redacted.
func (r *RedactingLogger) LogTest(t TestLog) {
	t.Name = r.redact(t.Name)
	r.inner.LogTest(t)
}

// Close closes the inner logger.
func (r *RedactingLogger) Close() error {
	return r.inner.Close()
}
