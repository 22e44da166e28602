package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testMockLogger struct {
	mock.Mock
}

func (m *testMockLogger) Info(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) Warn(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) Error(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) Debug(msg string, fields ...Field) {
	m.Called(msg, fields)
}

func (m *testMockLogger) WithFields(fields ...Field) Logger {
	args := m.Called(fields)
	return args.Get(0).(Logger)
}

func (m *testMockLogger) LogStep(step StepLog) {
	m.Called(step)
}

func (m *testMockLogger) LogAssertion(a AssertionLog) {
	m.Called(a)
}

func (m *testMockLogger) LogScreenshot(shot ScreenshotLog) {
	m.Called(shot)
}

func (m *testMockLogger) LogTest(t TestLog) {
	m.Called(t)
}

func (m *testMockLogger) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestMultiLogger_FansOut(t *testing.T) {
	a, b := NewMemoryLogger(), NewMemoryLogger()
	multi := NewMultiLogger(a, nil, b)

	multi.Info("info")
	multi.Warn("warn")
	multi.Error("error")
	multi.Debug("debug")
	multi.LogStep(StepLog{Description: "s"})
	multi.LogAssertion(AssertionLog{Description: "a", Passed: true})
	multi.LogScreenshot(ScreenshotLog{Path: "p"})
	multi.LogTest(TestLog{Name: "t", Phase: PhaseStarted})

	assert.Len(t, a.Entries(), 8)
	assert.Equal(t, a.Messages(), b.Messages())
}

func TestMultiLogger_WithFields(t *testing.T) {
	inner := &testMockLogger{}
	derived := NewMemoryLogger()
	fields := []Field{StringField("k", "v")}
	inner.On("WithFields", fields).Return(derived)

	multi := NewMultiLogger(inner)
	child := multi.WithFields(fields...)
	child.Info("hi")

	inner.AssertExpectations(t)
	assert.Equal(t, []string{"hi"}, derived.Messages())
}

func TestMultiLogger_CloseReturnsLastError(t *testing.T) {
	first := &testMockLogger{}
	second := &testMockLogger{}
	first.On("Close").Return(errors.New("first"))
	second.On("Close").Return(errors.New("second"))

	err := NewMultiLogger(first, second).Close()
	require.Error(t, err)
	assert.Equal(t, "second", err.Error())
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestMultiLogger_Records(t *testing.T) {
	inner := &testMockLogger{}
	step := StepLog{Description: "Open login page"}
	test := TestLog{Name: "login", Phase: PhaseEnded, Status: "passed"}
	inner.On("LogStep", step).Once()
	inner.On("LogTest", test).Once()

	multi := NewMultiLogger(inner)
	multi.LogStep(step)
	multi.LogTest(test)

	inner.AssertExpectations(t)
}
