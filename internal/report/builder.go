// Package report aggregates verification results into the fact-check
// report and derives its gate decision.
package report

import (
	"fmt"
	"math"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

// Review band: overall scores in [50,70) are neither cleanly passable nor
// clearly bad enough to auto-block and go to a human.
const (
	reviewBandLow  = 50
	reviewBandHigh = 70
)

// Builder computes severity category scores, the weighted overall score,
// correction suggestions and the gate fields, all in one pass. It is the
// sole writer of FactCheckReport.
type Builder struct {
	cfg model.FactCheckConfig
}

// NewBuilder creates a report builder
func NewBuilder(cfg model.FactCheckConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Build aggregates results into a report. claims and results must
// correspond 1:1 by index (the engine's VerifyBatch contract).
func (b *Builder) Build(claims []model.Claim, results []model.VerificationResult) *model.FactCheckReport {
	rpt := &model.FactCheckReport{
		BySeverity: map[model.Severity]model.ClaimCounts{},
	}

	// A document with zero extractable claims has nothing to verify and
	// passes trivially
	if len(claims) == 0 {
		rpt.OverallScore = 100
		rpt.CategoryScores = model.CategoryScores{Critical: 100, Major: 100, Minor: 100}
		rpt.PassesGate = true
		return rpt
	}

	resultByIdx := func(i int) model.VerificationResult {
		if i < len(results) {
			return results[i]
		}
		return model.VerificationResult{Status: model.StatusUnknown}
	}

	criticalFalse := false
	for i, claim := range claims {
		result := resultByIdx(i)

		counts := rpt.BySeverity[claim.Severity]
		counts.Total++
		rpt.Claims.Total++

		switch result.Status {
		case model.StatusVerified:
			counts.Verified++
			rpt.Claims.Verified++
		case model.StatusFalse:
			counts.False++
			rpt.Claims.False++

			rpt.FailedClaims = append(rpt.FailedClaims, model.FailedClaim{
				ClaimID:      claim.ID,
				Type:         claim.Type,
				Severity:     claim.Severity,
				Value:        claim.Value,
				CorrectValue: result.CorrectValue,
				SourceURL:    result.SourceURL,
			})

			if claim.Severity == model.SeverityCritical {
				criticalFalse = true
			}
			if result.CorrectValue != "" {
				rpt.Corrections = append(rpt.Corrections, buildCorrection(claim, result))
			}
		default:
			counts.Unknown++
			rpt.Claims.Unknown++
		}

		rpt.BySeverity[claim.Severity] = counts
	}

	rpt.CategoryScores = model.CategoryScores{
		Critical: categoryScore(rpt.BySeverity[model.SeverityCritical]),
		Major:    categoryScore(rpt.BySeverity[model.SeverityMajor]),
		Minor:    categoryScore(rpt.BySeverity[model.SeverityMinor]),
	}

	w := b.cfg.Weights
	rpt.OverallScore = int(math.Round(
		float64(rpt.CategoryScores.Critical)*w.Critical +
			float64(rpt.CategoryScores.Major)*w.Major +
			float64(rpt.CategoryScores.Minor)*w.Minor))

	t := b.cfg.Thresholds
	rpt.PassesGate = rpt.CategoryScores.Critical >= t.Critical &&
		rpt.CategoryScores.Major >= t.Major &&
		rpt.CategoryScores.Minor >= t.Minor &&
		rpt.OverallScore >= t.Overall

	rpt.NeedsHumanReview = rpt.OverallScore >= reviewBandLow && rpt.OverallScore < reviewBandHigh
	rpt.BlockPublish = rpt.OverallScore < t.Overall

	// Hard override: a critical claim proven false blocks unconditionally,
	// regardless of the numeric scores
	if b.cfg.BlockOnCriticalFailure && criticalFalse {
		rpt.CriticalFalse = true
		rpt.PassesGate = false
		rpt.BlockPublish = true
		rpt.NeedsHumanReview = true
	}

	return rpt
}

// Gate converts a report into the uniform gate record the decision policy
// consumes. Fact-check is a blocking gate: its failure alone stops publish.
func (b *Builder) Gate(rpt *model.FactCheckReport) model.Gate {
	gate := model.Gate{
		Name:           model.GateFactCheck,
		Score:          rpt.OverallScore,
		Passed:         rpt.PassesGate,
		Threshold:      b.cfg.Thresholds.Overall,
		BlockOnFailure: true,
		Details: fmt.Sprintf("%d claims: %d verified, %d false, %d unknown",
			rpt.Claims.Total, rpt.Claims.Verified, rpt.Claims.False, rpt.Claims.Unknown),
	}

	for _, failed := range rpt.FailedClaims {
		warning := fmt.Sprintf("%s claim %q is false", failed.Severity, failed.Value)
		if failed.CorrectValue != "" {
			warning += fmt.Sprintf(" (correct: %q)", failed.CorrectValue)
		}
		gate.Warnings = append(gate.Warnings, warning)
	}

	if rpt.NeedsHumanReview {
		gate.NeedsHumanReview = true
		if rpt.CriticalFalse {
			gate.ReviewTrigger = model.TriggerCriticalFalse
		} else {
			gate.ReviewTrigger = model.TriggerScoreBand
		}
	}

	return gate
}

// categoryScore is the verified ratio for one severity. A severity with
// zero claims passes vacuously.
func categoryScore(counts model.ClaimCounts) int {
	if counts.Total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(counts.Verified) / float64(counts.Total)))
}

func buildCorrection(claim model.Claim, result model.VerificationResult) model.Correction {
	reason := result.Details
	if reason == "" {
		reason = fmt.Sprintf("%s claim contradicted by %s", claim.Type, result.Source)
	}

	return model.Correction{
		ClaimID:       claim.ID,
		OriginalText:  claim.Value,
		SuggestedText: result.CorrectValue,
		Reason:        reason,
		// Critical facts are never rewritten automatically
		AutoApplicable: claim.Severity != model.SeverityCritical,
	}
}
