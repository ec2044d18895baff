package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Daun92/travel-blog-sub000/internal/model"
	"github.com/Daun92/travel-blog-sub000/internal/pipeline"
)

// fakeValidator blocks the paths listed in blocked and records call order
type fakeValidator struct {
	mu      sync.Mutex
	blocked map[string]bool
	failing map[string]bool
	calls   []string
}

func (f *fakeValidator) ValidateFile(ctx context.Context, path string) (*pipeline.Outcome, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	if f.failing[path] {
		return nil, errors.New("load failed: " + path)
	}
	return &pipeline.Outcome{
		Validation: model.ValidationResult{
			FilePath:      path,
			OverallPassed: !f.blocked[path],
			BlockPublish:  f.blocked[path],
		},
	}, nil
}

func TestBatch_SequentialPreservesOrder(t *testing.T) {
	validator := &fakeValidator{}
	batch := NewBatchProcessor(validator, 1, false)

	paths := []string{"a.facts.json", "b.facts.json", "c.facts.json"}
	outcomes := batch.ProcessFiles(context.Background(), paths)

	if len(outcomes) != 3 {
		t.Fatalf("Expected 3 outcomes, got %d", len(outcomes))
	}
	for i, path := range paths {
		if outcomes[i].Path != path {
			t.Errorf("Outcome %d: expected %s, got %s", i, path, outcomes[i].Path)
		}
	}
}

func TestBatch_StopOnBlockHaltsBeforeNextDocument(t *testing.T) {
	validator := &fakeValidator{blocked: map[string]bool{"b.facts.json": true}}
	batch := NewBatchProcessor(validator, 4, true)

	paths := []string{"a.facts.json", "b.facts.json", "c.facts.json"}
	outcomes := batch.ProcessFiles(context.Background(), paths)

	if len(outcomes) != 2 {
		t.Fatalf("Expected run to stop after the blocked document, got %d outcomes", len(outcomes))
	}
	if len(validator.calls) != 2 {
		t.Errorf("Expected c.facts.json to never start, got calls %v", validator.calls)
	}
	if !outcomes[1].Outcome.Validation.BlockPublish {
		t.Error("Expected last outcome to be the blocked document")
	}
}

func TestBatch_BlockWithoutStopContinues(t *testing.T) {
	validator := &fakeValidator{blocked: map[string]bool{"a.facts.json": true}}
	batch := NewBatchProcessor(validator, 1, false)

	outcomes := batch.ProcessFiles(context.Background(), []string{"a.facts.json", "b.facts.json"})

	if len(outcomes) != 2 {
		t.Fatalf("Expected both documents processed, got %d", len(outcomes))
	}
}

func TestBatch_ParallelRestoresInputOrder(t *testing.T) {
	validator := &fakeValidator{}
	batch := NewBatchProcessor(validator, 4, false)

	var paths []string
	for i := 0; i < 16; i++ {
		paths = append(paths, string(rune('a'+i))+".facts.json")
	}

	outcomes := batch.ProcessFiles(context.Background(), paths)

	if len(outcomes) != len(paths) {
		t.Fatalf("Expected %d outcomes, got %d", len(paths), len(outcomes))
	}
	for i, path := range paths {
		if outcomes[i] == nil || outcomes[i].Path != path {
			t.Errorf("Outcome %d: expected %s", i, path)
		}
	}
}

func TestBatch_ParallelManyDocumentsCompletes(t *testing.T) {
	// Far more documents than the pool's channel buffers hold; the run must
	// still finish with every outcome in input order
	validator := &fakeValidator{}
	batch := NewBatchProcessor(validator, 2, false)

	var paths []string
	for i := 0; i < 25; i++ {
		paths = append(paths, fmt.Sprintf("doc-%02d.facts.json", i))
	}

	done := make(chan []*DocumentOutcome, 1)
	go func() { done <- batch.ProcessFiles(context.Background(), paths) }()

	var outcomes []*DocumentOutcome
	select {
	case outcomes = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Batch stalled with more documents than the pool buffers hold")
	}

	if len(outcomes) != len(paths) {
		t.Fatalf("Expected %d outcomes, got %d", len(paths), len(outcomes))
	}
	for i, path := range paths {
		if outcomes[i] == nil || outcomes[i].Path != path {
			t.Errorf("Outcome %d: expected %s", i, path)
		}
	}
}

func TestBatch_ErrorsSurfacePerDocument(t *testing.T) {
	validator := &fakeValidator{failing: map[string]bool{"bad.facts.json": true}}
	batch := NewBatchProcessor(validator, 1, false)

	outcomes := batch.ProcessFiles(context.Background(), []string{"good.facts.json", "bad.facts.json"})

	if outcomes[0].Error != nil {
		t.Errorf("Unexpected error for good document: %v", outcomes[0].Error)
	}
	if outcomes[1].Error == nil {
		t.Error("Expected error for failing document")
	}
}

func TestBatch_EmptyInput(t *testing.T) {
	batch := NewBatchProcessor(&fakeValidator{}, 2, false)
	if outcomes := batch.ProcessFiles(context.Background(), nil); outcomes != nil {
		t.Errorf("Expected nil for empty input, got %v", outcomes)
	}
}
