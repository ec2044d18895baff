package source

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

// Verdict is the structured reading of a grounded-search reply
type Verdict struct {
	Status       model.VerificationStatus
	Confidence   int
	CorrectValue string
	Details      string
}

// Tag patterns are matched per line, case-insensitively, with optional
// markdown decoration around the tag name. The upstream model is not a
// reliable formatter, so every tag is optional.
var (
	statusPattern     = regexp.MustCompile(`(?i)\*{0,2}VERIFICATION_STATUS\*{0,2}\s*[:=]\s*(.+)`)
	confidencePattern = regexp.MustCompile(`(?i)\*{0,2}CONFIDENCE\*{0,2}\s*[:=]\s*(\d+)`)
	correctPattern    = regexp.MustCompile(`(?i)\*{0,2}CORRECT_VALUE\*{0,2}\s*[:=]\s*(.+)`)
	detailsPattern    = regexp.MustCompile(`(?i)\*{0,2}DETAILS\*{0,2}\s*[:=]\s*(.+)`)
)

// ParseVerdict reads the four tagged lines out of a raw model reply.
// It is total: any missing or malformed tag falls back to its default
// (status unknown, confidence 50). Strictness here would turn an
// unreliable upstream into crashes, so there is none.
func ParseVerdict(raw string) Verdict {
	verdict := Verdict{
		Status:     model.StatusUnknown,
		Confidence: 50,
	}

	if m := statusPattern.FindStringSubmatch(raw); m != nil {
		verdict.Status = parseStatus(m[1])
	}
	if m := confidencePattern.FindStringSubmatch(raw); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			verdict.Confidence = clamp(n, 0, 100)
		}
	}
	if m := correctPattern.FindStringSubmatch(raw); m != nil {
		v := strings.TrimSpace(m[1])
		if !isNullish(v) {
			verdict.CorrectValue = v
		}
	}
	if m := detailsPattern.FindStringSubmatch(raw); m != nil {
		verdict.Details = strings.TrimSpace(m[1])
	}

	return verdict
}

func parseStatus(s string) model.VerificationStatus {
	switch strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*`\"'"))) {
	case "verified", "true", "correct":
		return model.StatusVerified
	case "false", "incorrect", "wrong":
		return model.StatusFalse
	default:
		return model.StatusUnknown
	}
}

// isNullish filters out placeholder values models emit for "no correction"
func isNullish(s string) bool {
	switch strings.ToLower(s) {
	case "", "none", "n/a", "null", "-", "해당 없음", "없음":
		return true
	default:
		return false
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
