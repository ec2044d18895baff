package model

import "time"

// VerificationStatus is the terminal state of a single claim lookup
type VerificationStatus string

const (
	StatusVerified VerificationStatus = "verified"
	StatusFalse    VerificationStatus = "false"
	StatusUnknown  VerificationStatus = "unknown" // Could not be confirmed either way, never guessed
)

// VerificationSource records which source produced the result
type VerificationSource string

const (
	SourceOfficialAPI VerificationSource = "official_api"
	SourceWebSearch   VerificationSource = "web_search"
	SourceCached      VerificationSource = "cached"
	SourceNone        VerificationSource = "unknown"
)

// VerificationResult is the outcome of verifying one claim.
// CorrectValue is set only when Status is StatusFalse. Confidence is
// meaningless (treated as 0) when Status is StatusUnknown.
type VerificationResult struct {
	ClaimID      string             `json:"claim_id"`
	Status       VerificationStatus `json:"status"`
	Confidence   int                `json:"confidence"` // 0-100
	Source       VerificationSource `json:"source"`
	SourceURL    string             `json:"source_url,omitempty"`
	CorrectValue string             `json:"correct_value,omitempty"`
	CheckedAt    time.Time          `json:"checked_at"`
	Details      string             `json:"details,omitempty"`
}
