package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Renderer writes document outcomes as JSON and Markdown
type Renderer struct{}

// NewRenderer creates a renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the machine-readable outcome: the validation result
// with the full gate breakdown plus the fact-check report.
func (r *Renderer) RenderJSON(outcome *Outcome, path string) error {
	payload := struct {
		FilePath   string      `json:"file_path"`
		Validation interface{} `json:"validation"`
		FactCheck  interface{} `json:"fact_check"`
		ReviewCase interface{} `json:"review_case,omitempty"`
	}{
		FilePath:   outcome.Document.FilePath,
		Validation: outcome.Validation,
		FactCheck:  outcome.Report,
		ReviewCase: outcome.ReviewCase,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable report
func (r *Renderer) RenderMarkdown(outcome *Outcome, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Fact-check report: %s\n\n", outcome.Document.FilePath)
	fmt.Fprintf(&b, "Decision: **%s**\n\n", decisionLabel(outcome))

	rpt := outcome.Report
	fmt.Fprintf(&b, "## Scores\n\n")
	fmt.Fprintf(&b, "| Category | Score |\n|---|---|\n")
	fmt.Fprintf(&b, "| Overall | %d |\n", rpt.OverallScore)
	fmt.Fprintf(&b, "| Critical | %d |\n", rpt.CategoryScores.Critical)
	fmt.Fprintf(&b, "| Major | %d |\n", rpt.CategoryScores.Major)
	fmt.Fprintf(&b, "| Minor | %d |\n\n", rpt.CategoryScores.Minor)

	fmt.Fprintf(&b, "Claims: %d total, %d verified, %d false, %d unknown\n\n",
		rpt.Claims.Total, rpt.Claims.Verified, rpt.Claims.False, rpt.Claims.Unknown)

	if len(rpt.FailedClaims) > 0 {
		fmt.Fprintf(&b, "## Failed claims\n\n")
		for _, failed := range rpt.FailedClaims {
			fmt.Fprintf(&b, "- [%s/%s] asserted %q", failed.Severity, failed.Type, failed.Value)
			if failed.CorrectValue != "" {
				fmt.Fprintf(&b, ", correct value %q", failed.CorrectValue)
			}
			if failed.SourceURL != "" {
				fmt.Fprintf(&b, " ([source](%s))", failed.SourceURL)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(rpt.Corrections) > 0 {
		fmt.Fprintf(&b, "## Suggested corrections\n\n")
		for _, c := range rpt.Corrections {
			auto := "manual"
			if c.AutoApplicable {
				auto = "auto-applicable"
			}
			fmt.Fprintf(&b, "- %s: %q → %q (%s)\n", c.ClaimID, c.OriginalText, c.SuggestedText, auto)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Gates\n\n")
	fmt.Fprintf(&b, "| Gate | Score | Threshold | Passed | Blocks |\n|---|---|---|---|---|\n")
	for _, gate := range outcome.Validation.Gates {
		fmt.Fprintf(&b, "| %s | %d | %d | %v | %v |\n",
			gate.Name, gate.Score, gate.Threshold, gate.Passed, gate.BlockOnFailure)
	}

	if outcome.ReviewCase != nil {
		fmt.Fprintf(&b, "\nQueued for review: case `%s` (trigger: %s)\n",
			outcome.ReviewCase.ID, outcome.ReviewCase.Trigger)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write Markdown report: %w", err)
	}
	return nil
}

// RenderSummary prints a one-screen summary per document
func (r *Renderer) RenderSummary(w io.Writer, outcome *Outcome) {
	symbol := "✓"
	if outcome.Validation.BlockPublish {
		symbol = "✗"
	} else if outcome.Validation.NeedsHumanReview {
		symbol = "?"
	}

	fmt.Fprintf(w, "%s %s — %s (fact-check %d/100)\n",
		symbol, outcome.Document.FilePath, decisionLabel(outcome), outcome.Report.OverallScore)

	for _, name := range outcome.Validation.BlockingGates {
		fmt.Fprintf(w, "    blocked by gate: %s\n", name)
	}
	for _, failed := range outcome.Report.FailedClaims {
		fmt.Fprintf(w, "    false claim [%s]: %q", failed.Severity, failed.Value)
		if failed.CorrectValue != "" {
			fmt.Fprintf(w, " (expected %q)", failed.CorrectValue)
		}
		fmt.Fprintln(w)
	}
	if outcome.ReviewCase != nil {
		fmt.Fprintf(w, "    review case %s queued (trigger: %s)\n",
			outcome.ReviewCase.ID, outcome.ReviewCase.Trigger)
	}
}

func decisionLabel(outcome *Outcome) string {
	switch {
	case outcome.Validation.BlockPublish:
		return "BLOCKED"
	case outcome.Validation.NeedsHumanReview:
		return "QUEUED FOR REVIEW"
	default:
		return "PUBLISH"
	}
}
