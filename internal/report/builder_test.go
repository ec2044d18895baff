package report

import (
	"fmt"
	"testing"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

func testConfig() model.FactCheckConfig {
	return model.FactCheckConfig{
		Thresholds:             model.Thresholds{Critical: 100, Major: 85, Minor: 70, Overall: 80},
		Weights:                model.Weights{Critical: 0.3, Major: 0.3, Minor: 0.4},
		BlockOnCriticalFailure: true,
	}
}

func claim(id string, severity model.Severity) model.Claim {
	return model.Claim{ID: id, Type: model.ClaimTypeHours, Value: "value-" + id, Severity: severity}
}

func verified(id string) model.VerificationResult {
	return model.VerificationResult{ClaimID: id, Status: model.StatusVerified, Confidence: 95}
}

func falseResult(id string) model.VerificationResult {
	return model.VerificationResult{ClaimID: id, Status: model.StatusFalse, Confidence: 85}
}

func unknown(id string) model.VerificationResult {
	return model.VerificationResult{ClaimID: id, Status: model.StatusUnknown, Confidence: 50}
}

func TestBuild_ZeroClaimsPassTrivially(t *testing.T) {
	rpt := NewBuilder(testConfig()).Build(nil, nil)

	if rpt.OverallScore != 100 {
		t.Errorf("Expected score 100, got %d", rpt.OverallScore)
	}
	if !rpt.PassesGate {
		t.Error("A document without claims must pass")
	}
	if rpt.BlockPublish || rpt.NeedsHumanReview {
		t.Error("A document without claims must not block or queue for review")
	}
}

func TestBuild_AllVerified(t *testing.T) {
	claims := []model.Claim{
		claim("c1", model.SeverityCritical),
		claim("c2", model.SeverityMajor),
		claim("c3", model.SeverityMinor),
	}
	results := []model.VerificationResult{verified("c1"), verified("c2"), verified("c3")}

	rpt := NewBuilder(testConfig()).Build(claims, results)

	if rpt.OverallScore != 100 {
		t.Errorf("Expected score 100, got %d", rpt.OverallScore)
	}
	if !rpt.PassesGate {
		t.Error("Expected gate to pass")
	}
	if rpt.Claims.Verified != 3 || rpt.Claims.Total != 3 {
		t.Errorf("Unexpected counts: %+v", rpt.Claims)
	}
}

func TestBuild_WeightedOverallScore(t *testing.T) {
	// 1/2 critical, 1/1 major, 1/1 minor verified:
	// 0.3*50 + 0.3*100 + 0.4*100 = 85
	claims := []model.Claim{
		claim("c1", model.SeverityCritical),
		claim("c2", model.SeverityCritical),
		claim("c3", model.SeverityMajor),
		claim("c4", model.SeverityMinor),
	}
	results := []model.VerificationResult{
		verified("c1"), unknown("c2"), verified("c3"), verified("c4"),
	}

	rpt := NewBuilder(testConfig()).Build(claims, results)

	if rpt.CategoryScores.Critical != 50 {
		t.Errorf("Expected critical score 50, got %d", rpt.CategoryScores.Critical)
	}
	if rpt.OverallScore != 85 {
		t.Errorf("Expected overall 85, got %d", rpt.OverallScore)
	}
	if rpt.PassesGate {
		t.Error("Critical category below 100 must fail the gate")
	}
}

func TestBuild_VacuousCategoryScoresHundred(t *testing.T) {
	claims := []model.Claim{claim("c1", model.SeverityMinor)}
	results := []model.VerificationResult{verified("c1")}

	rpt := NewBuilder(testConfig()).Build(claims, results)

	if rpt.CategoryScores.Critical != 100 || rpt.CategoryScores.Major != 100 {
		t.Errorf("Empty categories must score 100, got %+v", rpt.CategoryScores)
	}
	if rpt.OverallScore != 100 {
		t.Errorf("Expected overall 100, got %d", rpt.OverallScore)
	}
}

func TestBuild_MinorFailuresScenario(t *testing.T) {
	// 8/10 minor verified, everything else empty: overall 0.4*80 + 0.6*100 = 92
	var claims []model.Claim
	var results []model.VerificationResult
	for i := 0; i < 10; i++ {
		c := claim(string(rune('a'+i)), model.SeverityMinor)
		claims = append(claims, c)
		if i < 8 {
			results = append(results, verified(c.ID))
		} else {
			results = append(results, unknown(c.ID))
		}
	}

	rpt := NewBuilder(testConfig()).Build(claims, results)

	if rpt.CategoryScores.Minor != 80 {
		t.Errorf("Expected minor score 80, got %d", rpt.CategoryScores.Minor)
	}
	if rpt.OverallScore != 92 {
		t.Errorf("Expected overall 92, got %d", rpt.OverallScore)
	}
	if !rpt.PassesGate {
		t.Error("Minor score at its threshold must pass")
	}
}

func TestBuild_CriticalFalseHardOverride(t *testing.T) {
	// Many verified claims keep the overall score high, but one critical
	// false claim blocks regardless
	claims := []model.Claim{
		claim("c1", model.SeverityCritical),
		claim("c2", model.SeverityCritical),
		claim("c3", model.SeverityCritical),
		claim("c4", model.SeverityCritical),
		claim("c5", model.SeverityMajor),
		claim("c6", model.SeverityMinor),
	}
	results := []model.VerificationResult{
		verified("c1"), verified("c2"), verified("c3"), falseResult("c4"),
		verified("c5"), verified("c6"),
	}

	rpt := NewBuilder(testConfig()).Build(claims, results)

	if !rpt.CriticalFalse {
		t.Error("Expected CriticalFalse to be set")
	}
	if rpt.PassesGate {
		t.Error("Critical false claim must fail the gate")
	}
	if !rpt.BlockPublish {
		t.Error("Critical false claim must block publish")
	}
	if !rpt.NeedsHumanReview {
		t.Error("Critical false claim must queue human review")
	}
}

func TestBuild_CriticalOverrideDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.BlockOnCriticalFailure = false
	cfg.Thresholds.Critical = 0
	cfg.Thresholds.Overall = 0

	claims := []model.Claim{
		claim("c1", model.SeverityCritical),
		claim("c2", model.SeverityCritical),
	}
	results := []model.VerificationResult{verified("c1"), falseResult("c2")}

	rpt := NewBuilder(cfg).Build(claims, results)

	if rpt.CriticalFalse {
		t.Error("Override disabled: CriticalFalse must stay unset")
	}
	if rpt.BlockPublish {
		t.Error("Override disabled: thresholds alone decide blocking")
	}
}

func TestBuild_ReviewBandBoundaries(t *testing.T) {
	type counts struct {
		verified, total int
	}
	tests := []struct {
		name        string
		critical    counts
		major       counts
		minor       counts
		overall     int
		needsReview bool
	}{
		// 0.3*0 + 0.3*30 + 0.4*100
		{"just below band", counts{0, 1}, counts{3, 10}, counts{2, 2}, 49, false},
		// 0.3*0 + 0.3*100(vacuous) + 0.4*50: inclusive lower bound
		{"lower bound", counts{0, 1}, counts{0, 0}, counts{1, 2}, 50, true},
		// 0.3*100(vacuous) + 0.3*30 + 0.4*75
		{"inside band", counts{0, 0}, counts{3, 10}, counts{3, 4}, 69, true},
		// 0.3*100(vacuous) + 0.3*0 + 0.4*100: exclusive upper bound
		{"upper bound", counts{0, 0}, counts{0, 10}, counts{4, 4}, 70, false},
		// 0.3*100 + 0.3*100 + 0.4*40
		{"above band", counts{0, 0}, counts{0, 0}, counts{4, 10}, 76, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var claims []model.Claim
			var results []model.VerificationResult
			add := func(severity model.Severity, c counts) {
				for i := 0; i < c.total; i++ {
					cl := claim(fmt.Sprintf("%s-%02d", severity, i), severity)
					claims = append(claims, cl)
					if i < c.verified {
						results = append(results, verified(cl.ID))
					} else {
						results = append(results, unknown(cl.ID))
					}
				}
			}
			add(model.SeverityCritical, tt.critical)
			add(model.SeverityMajor, tt.major)
			add(model.SeverityMinor, tt.minor)

			rpt := NewBuilder(testConfig()).Build(claims, results)

			if rpt.OverallScore != tt.overall {
				t.Fatalf("Expected overall %d, got %d", tt.overall, rpt.OverallScore)
			}
			if rpt.NeedsHumanReview != tt.needsReview {
				t.Errorf("Overall %d: expected needsReview=%v", rpt.OverallScore, tt.needsReview)
			}
		})
	}
}

func TestBuild_CorrectionsFromFalseClaims(t *testing.T) {
	claims := []model.Claim{
		{ID: "c1", Type: model.ClaimTypeHours, Value: "24시간 운영", Severity: model.SeverityMajor},
		{ID: "c2", Type: model.ClaimTypePrice, Value: "입장료 무료", Severity: model.SeverityCritical},
		{ID: "c3", Type: model.ClaimTypeContact, Value: "02-123-4567", Severity: model.SeverityMinor},
	}
	results := []model.VerificationResult{
		{ClaimID: "c1", Status: model.StatusFalse, CorrectValue: "09:00-18:00", Details: "official hours"},
		{ClaimID: "c2", Status: model.StatusFalse, CorrectValue: "성인 3,000원"},
		{ClaimID: "c3", Status: model.StatusFalse}, // no correct value known
	}

	rpt := NewBuilder(testConfig()).Build(claims, results)

	if len(rpt.Corrections) != 2 {
		t.Fatalf("Expected 2 corrections (one false claim has no correct value), got %d", len(rpt.Corrections))
	}
	if rpt.Corrections[0].SuggestedText != "09:00-18:00" {
		t.Errorf("Unexpected suggestion: %q", rpt.Corrections[0].SuggestedText)
	}
	if !rpt.Corrections[0].AutoApplicable {
		t.Error("Major severity correction should be auto-applicable")
	}
	if rpt.Corrections[1].AutoApplicable {
		t.Error("Critical severity correction must never be auto-applicable")
	}
	if len(rpt.FailedClaims) != 3 {
		t.Errorf("Expected 3 failed claims, got %d", len(rpt.FailedClaims))
	}
}

func TestGate_FieldsFromReport(t *testing.T) {
	builder := NewBuilder(testConfig())

	claims := []model.Claim{
		claim("c1", model.SeverityCritical),
		claim("c2", model.SeverityMinor),
	}
	results := []model.VerificationResult{falseResult("c1"), verified("c2")}

	rpt := builder.Build(claims, results)
	gate := builder.Gate(rpt)

	if gate.Name != model.GateFactCheck {
		t.Errorf("Expected gate name %s, got %s", model.GateFactCheck, gate.Name)
	}
	if gate.Passed {
		t.Error("Expected gate to fail")
	}
	if !gate.BlockOnFailure {
		t.Error("Fact-check gate must be blocking")
	}
	if gate.ReviewTrigger != model.TriggerCriticalFalse {
		t.Errorf("Expected critical_false trigger, got %q", gate.ReviewTrigger)
	}
	if len(gate.Warnings) != 1 {
		t.Errorf("Expected one warning per failed claim, got %d", len(gate.Warnings))
	}
}

func TestGate_ScoreBandTrigger(t *testing.T) {
	builder := NewBuilder(testConfig())

	var claims []model.Claim
	var results []model.VerificationResult
	for i := 0; i < 10; i++ {
		c := claim(string(rune('a'+i)), model.SeverityMinor)
		claims = append(claims, c)
		if i < 2 {
			results = append(results, verified(c.ID))
		} else {
			results = append(results, unknown(c.ID))
		}
	}

	rpt := builder.Build(claims, results) // overall 68
	gate := builder.Gate(rpt)

	if !gate.NeedsHumanReview {
		t.Fatal("Score in [50,70) must request review")
	}
	if gate.ReviewTrigger != model.TriggerScoreBand {
		t.Errorf("Expected score_50_70 trigger, got %q", gate.ReviewTrigger)
	}
}
