package model

// FactCheckReport aggregates the verification results for one document
type FactCheckReport struct {
	OverallScore   int               `json:"overall_score"` // 0-100, severity-weighted
	CategoryScores CategoryScores    `json:"category_scores"`
	Claims         ClaimCounts       `json:"claims"`
	BySeverity     map[Severity]ClaimCounts `json:"by_severity"`
	Corrections    []Correction      `json:"corrections,omitempty"`

	// Gate fields derived in the same aggregation pass
	PassesGate       bool `json:"passes_gate"`
	NeedsHumanReview bool `json:"needs_human_review"`
	BlockPublish     bool `json:"block_publish"`

	// CriticalFalse is set when a critical-severity claim resolved false,
	// which hard-blocks regardless of the numeric scores.
	CriticalFalse bool `json:"critical_false,omitempty"`

	// FailedClaims lists the expected-vs-actual detail for each false claim
	FailedClaims []FailedClaim `json:"failed_claims,omitempty"`
}

// CategoryScores holds the per-severity pass ratios.
// A severity with zero claims scores 100 (vacuous pass).
type CategoryScores struct {
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
}

// ClaimCounts breaks down claim outcomes
type ClaimCounts struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	False    int `json:"false"`
	Unknown  int `json:"unknown"`
}

// Correction is a suggested fix for a claim that resolved false.
// AutoApplicable is always false for critical claims: those must be
// reviewed by a human before any text is rewritten.
type Correction struct {
	ClaimID        string `json:"claim_id"`
	OriginalText   string `json:"original_text"`
	SuggestedText  string `json:"suggested_text"`
	Reason         string `json:"reason"`
	AutoApplicable bool   `json:"auto_applicable"`
}

// FailedClaim surfaces the asserted-vs-correct values for a false claim
type FailedClaim struct {
	ClaimID      string    `json:"claim_id"`
	Type         ClaimType `json:"type"`
	Severity     Severity  `json:"severity"`
	Value        string    `json:"value"`
	CorrectValue string    `json:"correct_value,omitempty"`
	SourceURL    string    `json:"source_url,omitempty"`
}
