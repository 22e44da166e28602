package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level.String())
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestRecordMessages(t *testing.T) {
	assert.Equal(t, "STEP: Click login",
		StepLog{Description: "Click login"}.Message())
	assert.Equal(t, "ASSERTION [PASSED]: Title matches",
		AssertionLog{Description: "Title matches", Passed: true}.Message())
	assert.Equal(t, "ASSERTION [FAILED]: Title matches",
		AssertionLog{Description: "Title matches"}.Message())
	assert.Equal(t, "Screenshot saved: shots/a.png",
		ScreenshotLog{Path: "shots/a.png"}.Message())
	assert.Equal(t, "========== TEST STARTED: login ==========",
		TestLog{Name: "login", Phase: PhaseStarted}.Message())
	assert.Equal(t,
		"========== TEST ENDED: login - Status: FAILED ==========",
		TestLog{Name: "login", Phase: PhaseEnded, Status: "failed"}.Message())
}

func TestFieldHelpers(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, StringField("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 3}, IntField("n", 3))
	assert.Equal(t, Field{Key: "b", Value: true}, BoolField("b", true))
	assert.Equal(t, Field{Key: "x", Value: 1.5}, LogField("x", 1.5))
	assert.Equal(t, "<nil>", ErrorField(nil).Value)
	assert.Equal(t, "error", ErrorField(nil).Key)
}

func TestDefault_BeforeInit(t *testing.T) {
	assert.NotNil(t, Default())
}

func TestOrNull(t *testing.T) {
	assert.Equal(t, NullLogger{}, OrNull(nil))
	mem := NewMemoryLogger()
	assert.Same(t, mem, OrNull(mem))
}
