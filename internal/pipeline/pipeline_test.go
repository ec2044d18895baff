package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/Daun92/travel-blog-sub000/internal/model"
	"github.com/Daun92/travel-blog-sub000/internal/policy"
	"github.com/Daun92/travel-blog-sub000/internal/report"
	"github.com/Daun92/travel-blog-sub000/internal/review"
	"github.com/Daun92/travel-blog-sub000/internal/source"
	"github.com/Daun92/travel-blog-sub000/internal/verify"
)

// scriptedRegistry returns a per-value verdict: true = found, false = miss
type scriptedRegistry struct {
	found map[string]bool
}

func (s *scriptedRegistry) Supports(model.ClaimType) bool { return true }

func (s *scriptedRegistry) Lookup(ctx context.Context, claimType model.ClaimType, value string) (*source.RegistryResult, error) {
	return &source.RegistryResult{
		Found:     s.found[value],
		SourceURL: "https://example.com/" + value,
		CheckedAt: time.Now().UTC(),
	}, nil
}

// scriptedSearch replies per-value with a fixed tagged verdict
type scriptedSearch struct {
	replies map[string]string
}

func (s *scriptedSearch) Ask(ctx context.Context, prompt string) (*source.SearchReply, error) {
	for value, raw := range s.replies {
		if strings.Contains(prompt, value) {
			return &source.SearchReply{RawText: raw}, nil
		}
	}
	return &source.SearchReply{RawText: "VERIFICATION_STATUS: unknown"}, nil
}

func newTestPipeline(t *testing.T, registry source.RegistryLookup, search source.GroundedSearch) *Pipeline {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.FactCheck.CacheResults = false
	cfg.FactCheck.SearchDelayMs = 0
	cfg.Review.QueuePath = filepath.Join(t.TempDir(), "review-queue.json")

	engine := verify.NewEngine(registry, search, nil, rate.NewLimiter(rate.Inf, 1), cfg.FactCheck, 1)

	return &Pipeline{
		engine:  engine,
		builder: report.NewBuilder(cfg.FactCheck),
		decider: policy.NewDecider(cfg.Gates),
		queue:   review.NewQueue(cfg.Review.QueuePath, cfg.Review.TTLDays),
		cfg:     cfg,
	}
}

func TestValidateDocument_AllVerifiedPublishes(t *testing.T) {
	p := newTestPipeline(t, &scriptedRegistry{found: map[string]bool{"경복궁": true, "서울 종로구": true}}, nil)

	doc := &Document{
		FilePath: "drafts/palace.md",
		Claims: []model.Claim{
			{ID: "c1", Type: model.ClaimTypeVenueExists, Value: "경복궁", Severity: model.SeverityCritical},
			{ID: "c2", Type: model.ClaimTypeLocation, Value: "서울 종로구", Severity: model.SeverityMajor},
		},
		Gates: []model.Gate{{Name: "seo", Score: 90, Passed: true}},
	}

	outcome, err := p.ValidateDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("ValidateDocument failed: %v", err)
	}

	if !outcome.Validation.OverallPassed {
		t.Error("Expected overall pass")
	}
	if outcome.Validation.BlockPublish {
		t.Error("Expected publish to proceed")
	}
	if outcome.ReviewCase != nil {
		t.Error("Expected no review case")
	}
	if len(outcome.Validation.Gates) != 2 {
		t.Errorf("Expected fact-check gate plus document gate, got %d", len(outcome.Validation.Gates))
	}
	if outcome.Validation.Gates[0].Name != model.GateFactCheck {
		t.Errorf("Fact-check gate must come first, got %s", outcome.Validation.Gates[0].Name)
	}
}

func TestValidateDocument_CriticalFalseBlocksAndQueues(t *testing.T) {
	search := &scriptedSearch{replies: map[string]string{
		"가짜 궁전": "VERIFICATION_STATUS: false\nCONFIDENCE: 90\nDETAILS: no such venue",
	}}
	p := newTestPipeline(t, &scriptedRegistry{found: map[string]bool{}}, search)

	doc := &Document{
		FilePath: "drafts/fake.md",
		Claims: []model.Claim{
			{ID: "c1", Type: model.ClaimTypeVenueExists, Value: "가짜 궁전", Severity: model.SeverityCritical},
		},
	}

	outcome, err := p.ValidateDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("ValidateDocument failed: %v", err)
	}

	if !outcome.Validation.BlockPublish {
		t.Error("Critical false claim must block publish")
	}
	if outcome.ReviewCase == nil {
		t.Fatal("Critical false claim must queue a review case")
	}
	if outcome.ReviewCase.Trigger != model.TriggerCriticalFalse {
		t.Errorf("Expected critical_false trigger, got %s", outcome.ReviewCase.Trigger)
	}

	pending, err := p.queue.Pending()
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].FilePath != "drafts/fake.md" {
		t.Errorf("Expected queued case for the document, got %v", pending)
	}
}

func TestValidateDocument_NoClaimsPasses(t *testing.T) {
	p := newTestPipeline(t, &scriptedRegistry{}, nil)

	outcome, err := p.ValidateDocument(context.Background(), &Document{FilePath: "drafts/empty.md"})
	if err != nil {
		t.Fatalf("ValidateDocument failed: %v", err)
	}

	if !outcome.Validation.OverallPassed || outcome.Validation.BlockPublish {
		t.Error("A document without claims must pass")
	}
	if outcome.Report.OverallScore != 100 {
		t.Errorf("Expected trivial score 100, got %d", outcome.Report.OverallScore)
	}
}

func TestNewPipeline_RequiresASource(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Review.QueuePath = filepath.Join(t.TempDir(), "queue.json")
	cfg.Cache.Dir = t.TempDir()

	if _, err := NewPipeline(cfg); err == nil {
		t.Error("Expected error when neither source is configured")
	}
}

func TestNewPipeline_RejectsInvalidConfig(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.FactCheck.Weights.Minor = 0.9
	cfg.Registry.ServiceKey = "key"

	if _, err := NewPipeline(cfg); err == nil {
		t.Error("Expected error for invalid weights")
	}
}
