package model

// Gate is the uniform record every checker produces. The fact-check
// pipeline emits one; SEO, content, duplicate-title and readability
// checkers each emit their own. The decision policy only ever sees this
// contract, never a checker's internals.
type Gate struct {
	Name           string   `json:"name"`
	Score          int      `json:"score"` // 0-100
	Passed         bool     `json:"passed"`
	Threshold      int      `json:"threshold"`
	BlockOnFailure bool     `json:"block_on_failure"`
	Details        string   `json:"details,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`

	// NeedsHumanReview lets a gate request manual adjudication on its own,
	// independent of the mean-score band. ReviewTrigger names the condition.
	NeedsHumanReview bool   `json:"needs_human_review,omitempty"`
	ReviewTrigger    string `json:"review_trigger,omitempty"`
}

// GateFactCheck is the gate name the fact-check pipeline publishes under
const GateFactCheck = "fact_check"

// Review triggers in priority order
const (
	TriggerCriticalFalse = "critical_false"
	TriggerScoreBand     = "score_50_70"
)

// ValidationResult is the final publish decision for one document
type ValidationResult struct {
	FilePath         string   `json:"file_path,omitempty"`
	Gates            []Gate   `json:"gates"`
	OverallPassed    bool     `json:"overall_passed"`
	BlockPublish     bool     `json:"block_publish"`
	NeedsHumanReview bool     `json:"needs_human_review"`
	BlockingGates    []string `json:"blocking_gates,omitempty"` // Names of gates that forced the block
	ReviewTrigger    string   `json:"review_trigger,omitempty"`
}
