package report

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	for _, res := range makeTestResults() {
		require.NoError(t, AppendToHistory(path, "run-1", res, "/results/run-1"))
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []HistoricalEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e HistoricalEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, entries, 2)

	assert.Equal(t, "valid-login-test", entries[0].ScenarioID)
	assert.Equal(t, "run-1", entries[0].RunID)
	assert.Equal(t, "ios", entries[0].Platform)
	assert.Equal(t, "5s", entries[0].Duration)
	assert.Equal(t, 1, entries[0].AssertionsPassed)
	assert.Equal(t, 2, entries[0].AssertionsTotal)
	assert.Equal(t, "failed", entries[1].Status)
}

func TestAppendToHistory_OpenError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "history.jsonl")
	err := AppendToHistory(path, "", makeTestResult(), "")
	assert.ErrorContains(t, err, "open history file")
}
