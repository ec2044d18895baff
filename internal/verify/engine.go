// Package verify implements the per-claim verification engine: cache,
// registry lookup, grounded-search fallback, and retry with backoff.
package verify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Daun92/travel-blog-sub000/internal/cache"
	"github.com/Daun92/travel-blog-sub000/internal/model"
	"github.com/Daun92/travel-blog-sub000/internal/source"
	"github.com/Daun92/travel-blog-sub000/internal/util"
)

// Confidence levels assigned by the lookup chain. A registry hit is near
// definitive; absence from the registry is weak signal only, because a
// missing record is not proof a claim is wrong.
const (
	confidenceRegistryHit  = 95
	confidenceRegistryMiss = 30
)

// sleepFunc is the delay function used for backoff and search throttling
// (injectable for tests)
var sleepFunc = time.Sleep

// Engine verifies claims through the source hierarchy. The cache and both
// adapters are constructor-injected; any of them may be nil, in which case
// that rung of the ladder is skipped.
type Engine struct {
	registry source.RegistryLookup
	search   source.GroundedSearch
	results  *cache.ResultCache
	limiter  *rate.Limiter
	cfg      model.FactCheckConfig
	workers  int
}

// NewEngine creates a verification engine
func NewEngine(registry source.RegistryLookup, search source.GroundedSearch, results *cache.ResultCache, limiter *rate.Limiter, cfg model.FactCheckConfig, workers int) *Engine {
	if workers <= 0 {
		workers = 1
	}
	return &Engine{
		registry: registry,
		search:   search,
		results:  results,
		limiter:  limiter,
		cfg:      cfg,
		workers:  workers,
	}
}

// Verify resolves a single claim to a terminal status. Only terminal
// source errors propagate; transient failures are retried and, when
// retries exhaust, degrade to an unknown result carrying the error text.
func (e *Engine) Verify(ctx context.Context, claim model.Claim) (model.VerificationResult, error) {
	if e.cfg.CacheResults && e.results != nil {
		if cached, found := e.results.Get(claim.Type, claim.Value); found {
			cached.ClaimID = claim.ID
			cached.Source = model.SourceCached
			return cached, nil
		}
	}

	result, err := e.verifyWithRetry(ctx, claim)
	if err != nil {
		return model.VerificationResult{}, err
	}

	if e.cfg.CacheResults && e.results != nil {
		// Put skips unknown results: they may resolve differently later
		_ = e.results.Put(claim.Type, claim.Value, result)
	}

	return result, nil
}

// verifyWithRetry wraps the registry+search attempt as one retryable unit
func (e *Engine) verifyWithRetry(ctx context.Context, claim model.Claim) (model.VerificationResult, error) {
	var lastErr error

	for attempt := 0; attempt < e.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(e.cfg.RetryDelayMs) * time.Millisecond << uint(attempt-1)
			sleepFunc(backoff)
		}

		result, err := e.attempt(ctx, claim)
		if err == nil {
			return result, nil
		}
		if source.IsTerminal(err) {
			// Every later call in this run will fail identically: fail fast
			return model.VerificationResult{}, err
		}
		if ctx.Err() != nil {
			return model.VerificationResult{}, ctx.Err()
		}
		lastErr = err
	}

	// Retries exhausted: contain the failure in this one claim
	return model.VerificationResult{
		ClaimID:   claim.ID,
		Status:    model.StatusUnknown,
		Source:    model.SourceNone,
		CheckedAt: time.Now().UTC(),
		Details:   fmt.Sprintf("verification failed after %d attempts: %v", e.cfg.MaxRetries, lastErr),
	}, nil
}

// attempt runs one pass of registry lookup then grounded-search fallback
func (e *Engine) attempt(ctx context.Context, claim model.Claim) (model.VerificationResult, error) {
	var registryMiss *model.VerificationResult

	if e.registry != nil && e.registry.Supports(claim.Type) {
		result, err := e.lookupRegistry(ctx, claim)
		if err != nil {
			return model.VerificationResult{}, err
		}
		if result.Status == model.StatusVerified {
			return result, nil
		}
		// Not found is no determination: fall through to grounded search
		registryMiss = &result
	}

	if e.search != nil {
		return e.searchGrounded(ctx, claim)
	}

	if registryMiss != nil {
		return *registryMiss, nil
	}

	return model.VerificationResult{
		ClaimID:   claim.ID,
		Status:    model.StatusUnknown,
		Source:    model.SourceNone,
		CheckedAt: time.Now().UTC(),
		Details:   "no verification source available for claim type " + string(claim.Type),
	}, nil
}

func (e *Engine) lookupRegistry(ctx context.Context, claim model.Claim) (model.VerificationResult, error) {
	if err := e.waitLimiter(ctx); err != nil {
		return model.VerificationResult{}, err
	}

	callCtx, cancel := e.callContext(ctx)
	defer cancel()

	reg, err := e.registry.Lookup(callCtx, claim.Type, claim.Value)
	if err != nil {
		return model.VerificationResult{}, err
	}

	if !reg.Found {
		return model.VerificationResult{
			ClaimID:    claim.ID,
			Status:     model.StatusUnknown,
			Confidence: confidenceRegistryMiss,
			Source:     model.SourceOfficialAPI,
			CheckedAt:  reg.CheckedAt,
			Details:    "no matching registry record",
		}, nil
	}

	return model.VerificationResult{
		ClaimID:    claim.ID,
		Status:     model.StatusVerified,
		Confidence: confidenceRegistryHit,
		Source:     model.SourceOfficialAPI,
		SourceURL:  reg.SourceURL,
		CheckedAt:  reg.CheckedAt,
		Details:    summarizeRegistryData(reg.Data),
	}, nil
}

func (e *Engine) searchGrounded(ctx context.Context, claim model.Claim) (model.VerificationResult, error) {
	// Fixed throttle on the search fallback, on top of the shared limiter
	if e.cfg.SearchDelayMs > 0 {
		sleepFunc(time.Duration(e.cfg.SearchDelayMs) * time.Millisecond)
	}
	if err := e.waitLimiter(ctx); err != nil {
		return model.VerificationResult{}, err
	}

	callCtx, cancel := e.callContext(ctx)
	defer cancel()

	reply, err := e.search.Ask(callCtx, buildPrompt(claim))
	if err != nil {
		return model.VerificationResult{}, err
	}

	verdict := source.ParseVerdict(reply.RawText)

	result := model.VerificationResult{
		ClaimID:    claim.ID,
		Status:     verdict.Status,
		Confidence: verdict.Confidence,
		Source:     model.SourceWebSearch,
		CheckedAt:  time.Now().UTC(),
		Details:    verdict.Details,
	}
	if verdict.Status == model.StatusFalse {
		result.CorrectValue = verdict.CorrectValue
	}

	// Evidence confidence overrides the model's self-reported number
	if len(reply.Evidence) > 0 {
		sum := 0
		for _, chunk := range reply.Evidence {
			sum += chunk.Confidence
		}
		result.Confidence = sum / len(reply.Evidence)
		result.SourceURL = reply.Evidence[0].URL
	}

	return result, nil
}

// VerifyBatch verifies all claims of one document. Results correspond 1:1
// to the input slice by index. Claims are dispatched severity-first so a
// critical failure is discovered as early as possible; a terminal source
// error aborts the remaining work and is returned alongside the partial
// results.
func (e *Engine) VerifyBatch(ctx context.Context, claims []model.Claim) ([]model.VerificationResult, error) {
	results := make([]model.VerificationResult, len(claims))
	if len(claims) == 0 {
		return results, nil
	}

	order := make([]int, len(claims))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return claims[order[a]].Severity.Rank() < claims[order[b]].Severity.Rank()
	})

	// All claims of one severity resolve before the next severity starts
	for band := 0; band < len(order); {
		end := band
		rank := claims[order[band]].Severity.Rank()
		for end < len(order) && claims[order[end]].Severity.Rank() == rank {
			end++
		}

		if err := e.verifyBand(ctx, claims, results, order[band:end]); err != nil {
			return results, err
		}
		band = end
	}

	return results, nil
}

// verifyBand resolves one severity band, sequentially or with a bounded
// number of workers.
func (e *Engine) verifyBand(ctx context.Context, claims []model.Claim, results []model.VerificationResult, indices []int) error {
	if e.workers <= 1 {
		for _, idx := range indices {
			result, err := e.Verify(ctx, claims[idx])
			if err != nil {
				return err
			}
			results[idx] = result
		}
		return nil
	}

	bandCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	semaphore := make(chan struct{}, e.workers)

	for _, idx := range indices {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			select {
			case <-bandCtx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			result, err := e.Verify(bandCtx, claims[i])
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
				return
			}
			results[i] = result
		}(idx)
	}

	wg.Wait()
	return firstErr
}

func (e *Engine) waitLimiter(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

// callContext bounds a single network call independently of the retry
// timer, so a hung connection cannot stall the whole batch.
func (e *Engine) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := time.Duration(e.cfg.CallTimeoutSec) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}

// buildPrompt composes the verification prompt for the search fallback
func buildPrompt(claim model.Claim) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim type: %s\n", claim.Type)
	fmt.Fprintf(&b, "Asserted value: %s\n", claim.Value)
	if ctxText := util.StripTags(claim.Context); ctxText != "" {
		fmt.Fprintf(&b, "Surrounding context: %s\n", ctxText)
	}
	b.WriteString("Verify whether the asserted value is factually correct for this claim type.")
	return b.String()
}

func summarizeRegistryData(data map[string]string) string {
	if len(data) == 0 {
		return "registry record found"
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+data[k])
	}
	return "registry record: " + strings.Join(parts, ", ")
}
