package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"digital.vasic.mobilelogin/pkg/scenario"
)

var jsonMarshal = json.Marshal

// HistoricalEntry is one scenario run in the history log.
type HistoricalEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	RunID            string    `json:"run_id,omitempty"`
	ScenarioID       string    `json:"scenario_id"`
	Status           string    `json:"status"`
	Platform         string    `json:"platform,omitempty"`
	Duration         string    `json:"duration"`
	AssertionsPassed int       `json:"assertions_passed"`
	AssertionsTotal  int       `json:"assertions_total"`
	ResultsPath      string    `json:"results_path"`
}

// AppendToHistory adds result as a single JSON line to the log at
// historyPath, creating it when missing.
func AppendToHistory(
	historyPath string,
	runID string,
	result *scenario.Result,
	resultsPath string,
) error {
	entry := HistoricalEntry{
		Timestamp:        result.EndTime,
		RunID:            runID,
		ScenarioID:       string(result.ScenarioID),
		Status:           result.Status,
		Platform:         result.Platform,
		Duration:         result.Duration.String(),
		AssertionsPassed: passedAssertions(result),
		AssertionsTotal:  len(result.Assertions),
		ResultsPath:      resultsPath,
	}

	data, err := jsonMarshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0o644,
	)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer func() { _ = file.Close() }()

	_, err = fmt.Fprintln(file, string(data))
	return err
}
