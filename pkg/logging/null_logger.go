package logging

// NullLogger discards all log output.
type NullLogger struct{}

// Info is a no-op.
func (NullLogger) Info(_ string, _ ...Field) {}

// Warn is a no-op.
func (NullLogger) Warn(_ string, _ ...Field) {}

// Error is a no-op.
func (NullLogger) Error(_ string, _ ...Field) {}

// Debug is a no-op.
func (NullLogger) Debug(_ string, _ ...Field) {}

// WithFields returns the NullLogger itself.
func (NullLogger) WithFields(_ ...Field) Logger {
	return NullLogger{}
}

// LogStep is a no-op.
func (NullLogger) LogStep(_ StepLog) {}

// LogAssertion is a no-op.
func (NullLogger) LogAssertion(_ AssertionLog) {}

// LogScreenshot is a no-op.
func (NullLogger) LogScreenshot(_ ScreenshotLog) {}

// LogTest is a no-op.
func (NullLogger) LogTest(_ TestLog) {}

// Close is a no-op.
func (NullLogger) Close() error { return nil }

// OrNull returns l, or a NullLogger when l is nil.
func OrNull(l Logger) Logger {
	if l == nil {
		return NullLogger{}
	}
	return l
}
