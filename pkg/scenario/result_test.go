package scenario

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.mobilelogin/pkg/assertion"
	"digital.vasic.mobilelogin/pkg/config"
)

func TestResult_AllPassed(t *testing.T) {
	r := &Result{}
	assert.True(t, r.AllPassed())

	r.Assertions = []assertion.Result{
		{Type: "url_contains", Passed: true},
		{Type: "is_false", Passed: false},
	}
	assert.False(t, r.AllPassed())
}

func TestResult_IsFinal(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{StatusPending, false},
		{StatusRunning, false},
		{StatusPassed, true},
		{StatusFailed, true},
		{StatusSkipped, true},
		{StatusTimedOut, true},
		{StatusError, true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			r := &Result{Status: tt.status}
			assert.Equal(t, tt.expected, r.IsFinal())
		})
	}
}

func TestResult_JSONFieldNames(t *testing.T) {
	r := &Result{
		ScenarioID:   "valid-login-test",
		ScenarioName: "Valid login",
		Status:       StatusFailed,
		Error:        "boom",
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "valid-login-test", raw["scenario_id"])
	assert.Equal(t, "failed", raw["status"])
	assert.Equal(t, "boom", raw["error"])
	assert.NotContains(t, raw, "session_id")
}

func TestConfig_PlatformName(t *testing.T) {
	c := NewConfig("x")
	assert.Equal(t, "", c.PlatformName())

	c.App = &config.Config{Platform: "ios"}
	assert.Equal(t, "ios", c.PlatformName())

	c.Platform = "android"
	assert.Equal(t, "android", c.PlatformName())
}

func TestNewConfig_Defaults(t *testing.T) {
	c := NewConfig("x")
	assert.Equal(t, ID("x"), c.ScenarioID)
	assert.Equal(t, "results", c.ResultsDir)
	assert.Equal(t, config.DefaultScreenshotsDir, c.ScreenshotsDir)
	assert.NotZero(t, c.Timeout)
}
