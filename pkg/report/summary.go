package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"digital.vasic.mobilelogin/pkg/scenario"
)

var jsonMarshalIndent = json.MarshalIndent

// MasterSummary aggregates every result of one run.
type MasterSummary struct {
	ID          string            `json:"id"`
	RunID       string            `json:"run_id,omitempty"`
	Suite       string            `json:"suite,omitempty"`
	Platform    string            `json:"platform,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Scenarios   []ScenarioSummary `json:"scenarios"`

	TotalScenarios   int           `json:"total_scenarios"`
	PassedScenarios  int           `json:"passed_scenarios"`
	FailedScenarios  int           `json:"failed_scenarios"`
	SkippedScenarios int           `json:"skipped_scenarios"`
	TotalDuration    time.Duration `json:"total_duration"`
	PassRate         float64       `json:"pass_rate"`
}

// ScenarioSummary is one row of a MasterSummary.
type ScenarioSummary struct {
	ScenarioID       scenario.ID   `json:"scenario_id"`
	ScenarioName     string        `json:"scenario_name"`
	Category         string        `json:"category,omitempty"`
	Status           string        `json:"status"`
	Duration         time.Duration `json:"duration"`
	AssertionsPassed int           `json:"assertions_passed"`
	AssertionsTotal  int           `json:"assertions_total"`
	Screenshots      int           `json:"screenshots"`
	Error            string        `json:"error,omitempty"`
}

// BuildMasterSummary creates a master summary for run runID.
// Skipped scenarios do not count against the pass rate.
func BuildMasterSummary(
	runID string,
	results []*scenario.Result,
) *MasterSummary {
	now := time.Now()
	summary := &MasterSummary{
		ID:          fmt.Sprintf("summary_%s", now.Format("20060102_150405")),
		RunID:       runID,
		GeneratedAt: now,
		Scenarios:   make([]ScenarioSummary, 0, len(results)),
	}

	for _, r := range results {
		if summary.Platform == "" {
			summary.Platform = r.Platform
		}
		summary.Scenarios = append(summary.Scenarios, ScenarioSummary{
			ScenarioID:       r.ScenarioID,
			ScenarioName:     r.ScenarioName,
			Category:         r.Category,
			Status:           r.Status,
			Duration:         r.Duration,
			AssertionsPassed: passedAssertions(r),
			AssertionsTotal:  len(r.Assertions),
			Screenshots:      len(r.Screenshots),
			Error:            r.Error,
		})
		summary.TotalScenarios++
		summary.TotalDuration += r.Duration

		switch r.Status {
		case scenario.StatusPassed:
			summary.PassedScenarios++
		case scenario.StatusSkipped:
			summary.SkippedScenarios++
		default:
			summary.FailedScenarios++
		}
	}

	if graded := summary.PassedScenarios + summary.FailedScenarios; graded > 0 {
		summary.PassRate = float64(summary.PassedScenarios) / float64(graded)
	}
	return summary
}

// SaveMasterSummary writes the summary as JSON and Markdown to
// outputDir and points latest_summary.{json,md} at them.
func SaveMasterSummary(
	summary *MasterSummary,
	outputDir string,
) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonPath := filepath.Join(outputDir, fmt.Sprintf("master_summary_%s.json", ts))
	jsonData, err := jsonMarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := os.WriteFile(jsonPath, jsonData, 0o644); err != nil {
		return fmt.Errorf("failed to write JSON summary: %w", err)
	}

	mdPath := filepath.Join(outputDir, fmt.Sprintf("master_summary_%s.md", ts))
	md := generateSummaryMarkdown(summary)
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return fmt.Errorf("failed to write Markdown summary: %w", err)
	}

	latestJSON := filepath.Join(outputDir, "latest_summary.json")
	latestMD := filepath.Join(outputDir, "latest_summary.md")
	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)
	return nil
}

// WriteReports writes one file per result and reporter into dir,
// named <scenario id>.<extension>. It returns the written paths.
func WriteReports(
	dir string,
	results []*scenario.Result,
	reporters ...Reporter,
) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}
	var paths []string
	for _, res := range results {
		for _, rep := range reporters {
			data, err := rep.GenerateReport(res)
			if err != nil {
				return paths, fmt.Errorf("report %s: %w", res.ScenarioID, err)
			}
			p := filepath.Join(dir, string(res.ScenarioID)+"."+rep.Extension())
			if err := os.WriteFile(p, data, 0o644); err != nil {
				return paths, fmt.Errorf("write report %s: %w", p, err)
			}
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func passedAssertions(r *scenario.Result) int {
	n := 0
	for _, a := range r.Assertions {
		if a.Passed {
			n++
		}
	}
	return n
}

func generateSummaryMarkdown(summary *MasterSummary) string {
	var sb strings.Builder

	title := summary.Suite
	if title == "" {
		title = "Login Test Run"
	}
	fmt.Fprintf(&sb, "# %s - Master Summary\n\n", title)
	fmt.Fprintf(&sb, "**Summary ID:** %s\n\n", summary.ID)
	if summary.RunID != "" {
		fmt.Fprintf(&sb, "**Run ID:** %s\n\n", summary.RunID)
	}
	if summary.Platform != "" {
		fmt.Fprintf(&sb, "**Platform:** %s\n\n", summary.Platform)
	}
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		summary.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Scenario | Status | Duration | Assertions | Screenshots |\n")
	sb.WriteString("|----------|--------|----------|------------|-------------|\n")
	for _, s := range summary.Scenarios {
		fmt.Fprintf(&sb, "| %s | %s | %v | %d/%d | %d |\n",
			escapeCell(s.ScenarioName), strings.ToUpper(s.Status),
			s.Duration, s.AssertionsPassed, s.AssertionsTotal,
			s.Screenshots)
	}

	var failures []ScenarioSummary
	for _, s := range summary.Scenarios {
		if s.Error != "" && s.Status != scenario.StatusPassed {
			failures = append(failures, s)
		}
	}
	if len(failures) > 0 {
		sb.WriteString("\n## Failures\n\n")
		for _, s := range failures {
			fmt.Fprintf(&sb, "- **%s**: %s\n", s.ScenarioName, s.Error)
		}
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total Scenarios | %d |\n", summary.TotalScenarios)
	fmt.Fprintf(&sb, "| Passed | %d |\n", summary.PassedScenarios)
	fmt.Fprintf(&sb, "| Failed | %d |\n", summary.FailedScenarios)
	fmt.Fprintf(&sb, "| Skipped | %d |\n", summary.SkippedScenarios)
	fmt.Fprintf(&sb, "| Pass Rate | %.0f%% |\n", summary.PassRate*100)
	fmt.Fprintf(&sb, "| Total Duration | %v |\n", summary.TotalDuration)

	return sb.String()
}
