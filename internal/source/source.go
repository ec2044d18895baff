// Package source defines the two lookup contracts the verification engine
// depends on: an authoritative registry and a grounded web search. Both are
// read-only and idempotent; neither ever guesses.
package source

import (
	"context"
	"time"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

// RegistryLookup queries an authoritative structured source for a claim.
// Absence of a record means Found=false, never an error: a venue missing
// from a registry is not proof the venue does not exist.
type RegistryLookup interface {
	// Supports reports whether this registry can answer claims of the
	// given type at all.
	Supports(claimType model.ClaimType) bool

	// Lookup checks the registry for the claim value. Must be idempotent
	// and side-effect-free.
	Lookup(ctx context.Context, claimType model.ClaimType, value string) (*RegistryResult, error)
}

// RegistryResult is the registry's answer for one claim
type RegistryResult struct {
	Found     bool
	Data      map[string]string // Structured fields when found (address, hours, tel, ...)
	SourceURL string
	CheckedAt time.Time
}

// GroundedSearch asks a language model to verify a claim against live web
// evidence. The reply is free text expected (but not guaranteed) to carry
// four tagged lines; Evidence carries per-chunk confidence when available.
type GroundedSearch interface {
	Ask(ctx context.Context, prompt string) (*SearchReply, error)
}

// SearchReply is the raw grounded-search output before parsing
type SearchReply struct {
	RawText  string
	Evidence []EvidenceChunk
}

// EvidenceChunk is one supporting source with its confidence score
type EvidenceChunk struct {
	URL        string
	Confidence int // 0-100
}
