// Package report renders scenario results as JSON and Markdown,
// writes the per-run master summary and keeps an append-only run
// history.
package report

import (
	"io"

	"digital.vasic.mobilelogin/pkg/scenario"
)

// Reporter defines the interface for generating scenario reports.
type Reporter interface {
	// GenerateReport creates a report for a single scenario result.
	GenerateReport(result *scenario.Result) ([]byte, error)

	// GenerateMasterSummary creates a summary of all results of a
	// run.
	GenerateMasterSummary(
		results []*scenario.Result,
	) ([]byte, error)

	// WriteReport writes a report to the specified writer.
	WriteReport(w io.Writer, result *scenario.Result) error

	// Extension is the file extension for generated reports.
	Extension() string
}

// Failed reports whether any result neither passed nor was skipped.
func Failed(results []*scenario.Result) bool {
	for _, r := range results {
		if r.Status != scenario.StatusPassed &&
			r.Status != scenario.StatusSkipped {
			return true
		}
	}
	return false
}

// ExitCode maps a run to a process exit status: 0 when nothing
// failed, 1 otherwise.
func ExitCode(results []*scenario.Result) int {
	if Failed(results) {
		return 1
	}
	return 0
}
