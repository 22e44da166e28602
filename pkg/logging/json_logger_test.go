package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func splitNonEmpty(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	var entries []map[string]any
	for _, line := range splitNonEmpty(string(data)) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestJSONLogger_Output(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSONLogger(LoggerConfig{
		Output: &buf,
		Level:  LevelInfo,
	})
	require.NoError(t, err)

	logger.Info("hello", LogField("key", "val"))
	require.NoError(t, logger.Close())

	lines := splitNonEmpty(buf.String())
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "val", entry["key"])
	assert.Contains(t, entry, "time")
}

func TestJSONLogger_Files(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewJSONLogger(LoggerConfig{
		Dir:     dir,
		Level:   LevelDebug,
		Verbose: true,
	})
	require.NoError(t, err)

	logger.Info("plain info")
	logger.Debug("debug msg")
	logger.Error("it broke", ErrorField(assert.AnError))
	logger.LogStep(StepLog{Description: "Enter username"})
	logger.LogAssertion(AssertionLog{Description: "URL", Passed: false})
	logger.LogScreenshot(ScreenshotLog{Path: "screenshots/x.png"})
	logger.LogTest(TestLog{Name: "login", Phase: PhaseStarted})
	require.NoError(t, logger.Close())

	combined := readEntries(t, filepath.Join(dir, CombinedLogFile))
	assert.Len(t, combined, 7)

	errs := readEntries(t, filepath.Join(dir, ErrorLogFile))
	require.Len(t, errs, 1)
	assert.Equal(t, "it broke", errs[0]["message"])
	assert.Equal(t, "error", errs[0]["level"])

	exec := readEntries(t, filepath.Join(dir, ExecutionLogFile))
	require.Len(t, exec, 4)
	assert.Equal(t, "STEP: Enter username", exec[0]["message"])
	assert.Equal(t, "step", exec[0][RecordField])
	assert.Equal(t, "ASSERTION [FAILED]: URL", exec[1]["message"])
	assert.Equal(t, false, exec[1]["passed"])
	assert.Equal(t, "Screenshot saved: screenshots/x.png", exec[2]["message"])
	assert.Equal(t, "========== TEST STARTED: login ==========",
		exec[3]["message"])
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewJSONLogger(LoggerConfig{
		Dir:     dir,
		Level:   LevelWarn,
		Verbose: true,
	})
	require.NoError(t, err)

	logger.Debug("should not appear")
	logger.Info("should not appear")
	logger.Warn("should appear")
	logger.Error("should appear")
	require.NoError(t, logger.Close())

	entries := readEntries(t, filepath.Join(dir, CombinedLogFile))
	assert.Len(t, entries, 2)
}

func TestJSONLogger_DebugRequiresVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSONLogger(LoggerConfig{
		Output: &buf,
		Level:  LevelDebug,
	})
	require.NoError(t, err)

	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestJSONLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSONLogger(LoggerConfig{
		Output: &buf,
		Fields: map[string]any{"run": "r1"},
	})
	require.NoError(t, err)

	child := logger.WithFields(StringField("test", "login"))
	child.Info("child")
	logger.Info("parent")

	lines := splitNonEmpty(buf.String())
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "r1", first["run"])
	assert.Equal(t, "login", first["test"])
	assert.Equal(t, "r1", second["run"])
	assert.NotContains(t, second, "test")
}

func TestJSONLogger_CloseStopsWriting(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewJSONLogger(LoggerConfig{Output: &buf})
	require.NoError(t, err)

	child := logger.WithFields(StringField("a", "b"))
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	logger.Info("dropped")
	child.Info("dropped too")
	assert.Empty(t, buf.String())
}

func TestJSONLogger_BadDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := NewJSONLogger(LoggerConfig{
		Dir: filepath.Join(blocker, "logs"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create log directory")
}
