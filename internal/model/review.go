package model

import "time"

// ReviewStatus is the lifecycle state of a queued review case
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// ReviewCase is one document flagged for manual adjudication.
// Created once per triggering validation run; its lifecycle ends on
// approve/reject or TTL cleanup.
type ReviewCase struct {
	ID        string       `json:"id"`
	FilePath  string       `json:"file_path"`
	Trigger   string       `json:"trigger"` // critical_false, score_50_70, or gate-specific
	Score     int          `json:"score"`
	Details   string       `json:"details,omitempty"`
	Status    ReviewStatus `json:"status"`
	Note      string       `json:"note,omitempty"` // Reviewer note on approve/reject
	CreatedAt time.Time    `json:"created_at"`
	ResolvedAt *time.Time  `json:"resolved_at,omitempty"`
}
