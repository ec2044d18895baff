package model

// Claim represents a factual assertion extracted from a generated post.
// Claims are produced by the upstream extractor and are immutable here;
// severity is fixed at extraction time.
type Claim struct {
	ID       string    `json:"id"`
	Type     ClaimType `json:"type"`
	Value    string    `json:"value"`             // The asserted fact (e.g., "24시간 운영")
	Context  string    `json:"context,omitempty"` // Surrounding sentence from the post
	Severity Severity  `json:"severity"`
}

// ClaimType categorizes what kind of fact is being asserted
type ClaimType string

const (
	ClaimTypeVenueExists ClaimType = "venue_exists" // The place itself exists
	ClaimTypeLocation    ClaimType = "location"     // Address or position
	ClaimTypeHours       ClaimType = "hours"        // Opening hours
	ClaimTypeEventPeriod ClaimType = "event_period" // Festival/exhibition dates
	ClaimTypePrice       ClaimType = "price"        // Admission or menu price
	ClaimTypeFacilities  ClaimType = "facilities"   // Parking, accessibility, amenities
	ClaimTypeContact     ClaimType = "contact"      // Phone number, website
	ClaimTypeTransport   ClaimType = "transport"    // Directions, nearest station
	ClaimTypeUnknown     ClaimType = "unknown"      // Extractor emitted a type we don't know
)

// Normalize maps unrecognized claim types to ClaimTypeUnknown so new extractor
// output can never turn into an accidental string match downstream.
func (t ClaimType) Normalize() ClaimType {
	switch t {
	case ClaimTypeVenueExists, ClaimTypeLocation, ClaimTypeHours, ClaimTypeEventPeriod,
		ClaimTypePrice, ClaimTypeFacilities, ClaimTypeContact, ClaimTypeTransport:
		return t
	default:
		return ClaimTypeUnknown
	}
}

// Severity controls scoring weight and whether a single failure can hard-block
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Rank orders severities for batch scheduling (critical first)
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityMajor:
		return 1
	default:
		return 2
	}
}
