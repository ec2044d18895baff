// Package policy turns a set of gate records into one publish decision.
package policy

import (
	"math"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

// Review band over the mean gate score, same bounds as the fact-check
// report's own band.
const (
	reviewBandLow  = 50
	reviewBandHigh = 70
)

// Decider evaluates gates against the required/warning classification.
// It owns the final ValidationResult.
type Decider struct {
	required map[string]bool
}

// NewDecider creates a gate decision policy from the configured partition
func NewDecider(cfg model.GatesConfig) *Decider {
	required := make(map[string]bool, len(cfg.Required))
	for _, name := range cfg.Required {
		required[name] = true
	}
	return &Decider{required: required}
}

// Decide produces the publish decision for one document.
//
// Required-vs-warning only controls whether a failure counts against the
// explicit pass; BlockOnFailure is the actual block trigger, so an
// advisory gate can still hard-block on a catastrophic score.
func (d *Decider) Decide(gates []model.Gate) model.ValidationResult {
	result := model.ValidationResult{
		Gates:         gates,
		OverallPassed: true,
	}

	scoreSum := 0
	reviewTrigger := ""

	for _, gate := range gates {
		scoreSum += gate.Score

		if !gate.Passed && d.required[gate.Name] {
			result.OverallPassed = false
		}
		if !gate.Passed && gate.BlockOnFailure {
			result.OverallPassed = false
			result.BlockPublish = true
			result.BlockingGates = append(result.BlockingGates, gate.Name)
		}

		if gate.NeedsHumanReview {
			result.NeedsHumanReview = true
			reviewTrigger = higherPriorityTrigger(reviewTrigger, triggerFor(gate))
		}
	}

	if len(gates) > 0 {
		mean := int(math.Round(float64(scoreSum) / float64(len(gates))))
		if mean >= reviewBandLow && mean < reviewBandHigh {
			result.NeedsHumanReview = true
			reviewTrigger = higherPriorityTrigger(reviewTrigger, model.TriggerScoreBand)
		}
	}

	result.ReviewTrigger = reviewTrigger
	return result
}

func triggerFor(gate model.Gate) string {
	if gate.ReviewTrigger != "" {
		return gate.ReviewTrigger
	}
	return gate.Name + "_review"
}

// higherPriorityTrigger keeps the most urgent trigger:
// critical_false > score_50_70 > gate-specific.
func higherPriorityTrigger(current, candidate string) string {
	if current == "" {
		return candidate
	}
	if triggerRank(candidate) < triggerRank(current) {
		return candidate
	}
	return current
}

func triggerRank(trigger string) int {
	switch trigger {
	case model.TriggerCriticalFalse:
		return 0
	case model.TriggerScoreBand:
		return 1
	default:
		return 2
	}
}
