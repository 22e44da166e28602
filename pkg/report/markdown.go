package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"digital.vasic.mobilelogin/pkg/scenario"
)

// MarkdownReporter renders results as Markdown for reading in a
// repository browser or CI summary.
type MarkdownReporter struct {
	title string
}

// NewMarkdownReporter creates a Markdown reporter whose master
// summary carries title.
func NewMarkdownReporter(title string) *MarkdownReporter {
	return &MarkdownReporter{title: title}
}

// Extension returns "md".
func (r *MarkdownReporter) Extension() string { return "md" }

// GenerateReport renders a single result.
func (r *MarkdownReporter) GenerateReport(
	result *scenario.Result,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes a single result to w.
func (r *MarkdownReporter) WriteReport(
	w io.Writer,
	result *scenario.Result,
) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", result.ScenarioName)
	fmt.Fprintf(&sb, "**Scenario ID:** %s\n\n", result.ScenarioID)

	sb.WriteString("| Field | Value |\n|-------|-------|\n")
	fmt.Fprintf(&sb, "| Status | %s |\n", strings.ToUpper(result.Status))
	if result.Platform != "" {
		fmt.Fprintf(&sb, "| Platform | %s |\n", result.Platform)
	}
	if result.SessionID != "" {
		fmt.Fprintf(&sb, "| Session | %s |\n", result.SessionID)
	}
	fmt.Fprintf(&sb, "| Started | %s |\n", result.StartTime.Format(time.RFC3339))
	fmt.Fprintf(&sb, "| Duration | %v |\n", result.Duration)
	if result.Error != "" {
		fmt.Fprintf(&sb, "| Error | %s |\n", escapeCell(result.Error))
	}

	if len(result.Assertions) > 0 {
		sb.WriteString("\n## Assertions\n\n")
		sb.WriteString("| # | Check | Passed | Message |\n")
		sb.WriteString("|---|-------|--------|---------|\n")
		for i, a := range result.Assertions {
			check := a.Description
			if check == "" {
				check = a.Type
			}
			passed := "no"
			if a.Passed {
				passed = "yes"
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n",
				i+1, escapeCell(check), passed, escapeCell(a.Message))
		}
	}

	if len(result.Outputs) > 0 {
		sb.WriteString("\n## Outputs\n\n")
		keys := make([]string, 0, len(result.Outputs))
		for k := range result.Outputs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "- `%s`: %s\n", k, result.Outputs[k])
		}
	}

	if len(result.Screenshots) > 0 {
		sb.WriteString("\n## Screenshots\n\n")
		for _, p := range result.Screenshots {
			fmt.Fprintf(&sb, "- [%s](%s)\n", filepath.Base(p), p)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// GenerateMasterSummary renders the run overview.
func (r *MarkdownReporter) GenerateMasterSummary(
	results []*scenario.Result,
) ([]byte, error) {
	summary := BuildMasterSummary("", results)
	summary.Suite = r.title
	return []byte(generateSummaryMarkdown(summary)), nil
}

// escapeCell keeps a value inside one Markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
