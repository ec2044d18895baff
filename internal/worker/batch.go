package worker

import (
	"context"

	"github.com/Daun92/travel-blog-sub000/internal/pipeline"
)

// DocumentValidator validates one claims file
type DocumentValidator interface {
	ValidateFile(ctx context.Context, path string) (*pipeline.Outcome, error)
}

// ValidateJob fact-checks one document
type ValidateJob struct {
	Index     int
	Path      string
	Validator DocumentValidator
}

// Execute runs the validation job
func (j *ValidateJob) Execute(ctx context.Context) Result {
	outcome, err := j.Validator.ValidateFile(ctx, j.Path)
	return &DocumentOutcome{
		Index:   j.Index,
		Path:    j.Path,
		Outcome: outcome,
		Error:   err,
	}
}

// DocumentOutcome is the result of validating one document
type DocumentOutcome struct {
	Index   int
	Path    string
	Outcome *pipeline.Outcome
	Error   error
}

// GetError returns the error from the validation
func (o *DocumentOutcome) GetError() error {
	return o.Error
}

// BatchProcessor validates multiple documents. With StopOnBlock set the
// run is sequential and halts before starting the next document once one
// is blocked; otherwise documents are processed by a bounded pool.
type BatchProcessor struct {
	validator   DocumentValidator
	concurrency int
	stopOnBlock bool
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(validator DocumentValidator, concurrency int, stopOnBlock bool) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		validator:   validator,
		concurrency: concurrency,
		stopOnBlock: stopOnBlock,
	}
}

// ProcessFiles validates the given claims files. Results are returned in
// input order; with StopOnBlock the slice is truncated at the first
// blocked document.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*DocumentOutcome {
	if len(paths) == 0 {
		return nil
	}

	if b.stopOnBlock || b.concurrency == 1 {
		return b.processSequential(ctx, paths)
	}
	return b.processParallel(ctx, paths)
}

func (b *BatchProcessor) processSequential(ctx context.Context, paths []string) []*DocumentOutcome {
	var outcomes []*DocumentOutcome

	for i, path := range paths {
		outcome, err := b.validator.ValidateFile(ctx, path)
		result := &DocumentOutcome{Index: i, Path: path, Outcome: outcome, Error: err}
		outcomes = append(outcomes, result)

		if b.stopOnBlock && err == nil && outcome.Validation.BlockPublish {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	return outcomes
}

func (b *BatchProcessor) processParallel(ctx context.Context, paths []string) []*DocumentOutcome {
	pool := NewPool(b.concurrency)
	pool.Start()

	// Submission must overlap draining: with more documents than the pool's
	// channel buffers hold, submitting everything up front blocks once the
	// workers stall on the full results channel.
	go func() {
		for i, path := range paths {
			pool.Submit(&ValidateJob{Index: i, Path: path, Validator: b.validator})
		}
		pool.Close()
	}()

	results := pool.Wait()

	// Restore input order
	outcomes := make([]*DocumentOutcome, len(paths))
	for _, result := range results {
		outcome := result.(*DocumentOutcome)
		outcomes[outcome.Index] = outcome
	}
	return outcomes
}
