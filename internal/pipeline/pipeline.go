// Package pipeline orchestrates fact-checking one document end to end:
// verify claims, aggregate the report, merge collaborator gates, decide,
// and queue review cases.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Daun92/travel-blog-sub000/internal/cache"
	"github.com/Daun92/travel-blog-sub000/internal/model"
	"github.com/Daun92/travel-blog-sub000/internal/policy"
	"github.com/Daun92/travel-blog-sub000/internal/report"
	"github.com/Daun92/travel-blog-sub000/internal/review"
	"github.com/Daun92/travel-blog-sub000/internal/source"
	"github.com/Daun92/travel-blog-sub000/internal/verify"
)

// Pipeline wires the verification engine, report builder, decision policy
// and review queue for a run. The verification cache is shared across all
// documents of the run.
type Pipeline struct {
	engine  *verify.Engine
	builder *report.Builder
	decider *policy.Decider
	queue   *review.Queue
	cfg     *model.Config
}

// NewPipeline builds a pipeline from validated configuration. Source
// credentials are checked here, before any claim is processed: at least
// one of the registry and the grounded search must be configured.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	var registry source.RegistryLookup
	if cfg.Registry.ServiceKey != "" {
		r, err := source.NewTourRegistry(cfg.Registry, cfg.HTTP)
		if err != nil {
			return nil, err
		}
		registry = r
	}

	var search source.GroundedSearch
	if cfg.Search.APIKey != "" {
		s, err := source.NewOpenAISearch(cfg.Search)
		if err != nil {
			return nil, err
		}
		search = s
	}

	if registry == nil && search == nil {
		return nil, fmt.Errorf("no verification source configured: set a registry service key or a search API key")
	}

	var results *cache.ResultCache
	if cfg.FactCheck.CacheResults {
		layered := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		results = cache.NewResultCache(layered, cfg.Cache.DiskTTL)
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.Concurrency.RequestsPerSecond), cfg.Concurrency.BurstSize)
	engine := verify.NewEngine(registry, search, results, limiter, cfg.FactCheck, cfg.Concurrency.Workers)

	return &Pipeline{
		engine:  engine,
		builder: report.NewBuilder(cfg.FactCheck),
		decider: policy.NewDecider(cfg.Gates),
		queue:   review.NewQueue(cfg.Review.QueuePath, cfg.Review.TTLDays),
		cfg:     cfg,
	}, nil
}

// Outcome is the complete result for one document
type Outcome struct {
	Document   *Document
	Report     *model.FactCheckReport
	Validation model.ValidationResult
	ReviewCase *model.ReviewCase
}

// ValidateFile loads and validates one claims file
func (p *Pipeline) ValidateFile(ctx context.Context, path string) (*Outcome, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	return p.ValidateDocument(ctx, doc)
}

// ValidateDocument runs the full fact-check and gate decision for one
// document. A terminal source error aborts and propagates; the caller
// decides whether to continue with other documents.
func (p *Pipeline) ValidateDocument(ctx context.Context, doc *Document) (*Outcome, error) {
	results, err := p.engine.VerifyBatch(ctx, doc.Claims)
	if err != nil {
		return nil, fmt.Errorf("verify %s: %w", doc.FilePath, err)
	}

	rpt := p.builder.Build(doc.Claims, results)

	gates := make([]model.Gate, 0, len(doc.Gates)+1)
	gates = append(gates, p.builder.Gate(rpt))
	gates = append(gates, doc.Gates...)

	decision := p.decider.Decide(gates)
	decision.FilePath = doc.FilePath

	outcome := &Outcome{
		Document:   doc,
		Report:     rpt,
		Validation: decision,
	}

	// A document needing review is never silently published or dropped
	if decision.NeedsHumanReview {
		queued, err := p.queue.Append(model.ReviewCase{
			FilePath: doc.FilePath,
			Trigger:  decision.ReviewTrigger,
			Score:    rpt.OverallScore,
			Details:  reviewDetails(decision),
		})
		if err != nil {
			return nil, fmt.Errorf("queue review case for %s: %w", doc.FilePath, err)
		}
		outcome.ReviewCase = &queued
	}

	return outcome, nil
}

func reviewDetails(decision model.ValidationResult) string {
	var parts []string
	if len(decision.BlockingGates) > 0 {
		parts = append(parts, "blocking gates: "+strings.Join(decision.BlockingGates, ", "))
	}
	for _, gate := range decision.Gates {
		if !gate.Passed {
			parts = append(parts, fmt.Sprintf("%s scored %d (threshold %d)", gate.Name, gate.Score, gate.Threshold))
		}
	}
	return strings.Join(parts, "; ")
}
