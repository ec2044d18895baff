// Package review persists cases flagged for manual adjudication.
package review

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Daun92/travel-blog-sub000/internal/model"
)

// Queue is a file-backed review queue. All mutations are read-modify-write
// under a lock with an atomic rename, so concurrent appends from parallel
// document processing never lose writes.
type Queue struct {
	path string
	ttl  time.Duration
	mu   sync.Mutex
}

// NewQueue creates a queue persisted at path. Cases older than ttlDays are
// dropped on load; ttlDays <= 0 disables cleanup.
func NewQueue(path string, ttlDays int) *Queue {
	return &Queue{
		path: path,
		ttl:  time.Duration(ttlDays) * 24 * time.Hour,
	}
}

// Append adds a new pending case. The ID is derived from the file path and
// creation time when the caller leaves it empty.
func (q *Queue) Append(c model.ReviewCase) (model.ReviewCase, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	cases, err := q.load()
	if err != nil {
		return model.ReviewCase{}, err
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.ID == "" {
		c.ID = newCaseID(c.FilePath, c.CreatedAt)
	}
	if c.Status == "" {
		c.Status = model.ReviewPending
	}

	cases = append(cases, c)
	if err := q.save(cases); err != nil {
		return model.ReviewCase{}, err
	}
	return c, nil
}

// Pending returns all unresolved cases
func (q *Queue) Pending() ([]model.ReviewCase, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	cases, err := q.load()
	if err != nil {
		return nil, err
	}

	var pending []model.ReviewCase
	for _, c := range cases {
		if c.Status == model.ReviewPending {
			pending = append(pending, c)
		}
	}
	return pending, nil
}

// Resolve transitions one pending case to approved or rejected
func (q *Queue) Resolve(id string, status model.ReviewStatus, note string) (model.ReviewCase, error) {
	if status != model.ReviewApproved && status != model.ReviewRejected {
		return model.ReviewCase{}, fmt.Errorf("invalid resolution status: %s", status)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	cases, err := q.load()
	if err != nil {
		return model.ReviewCase{}, err
	}

	for i, c := range cases {
		if c.ID != id {
			continue
		}
		if c.Status != model.ReviewPending {
			return model.ReviewCase{}, fmt.Errorf("case %s already resolved (%s)", id, c.Status)
		}

		now := time.Now().UTC()
		cases[i].Status = status
		cases[i].Note = note
		cases[i].ResolvedAt = &now

		if err := q.save(cases); err != nil {
			return model.ReviewCase{}, err
		}
		return cases[i], nil
	}

	return model.ReviewCase{}, fmt.Errorf("case not found: %s", id)
}

// load reads the queue file, applying TTL cleanup. A missing file is an
// empty queue.
func (q *Queue) load() ([]model.ReviewCase, error) {
	data, err := os.ReadFile(q.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read queue: %w", err)
	}

	var cases []model.ReviewCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parse queue: %w", err)
	}

	if q.ttl <= 0 {
		return cases, nil
	}

	cutoff := time.Now().Add(-q.ttl)
	kept := cases[:0]
	for _, c := range cases {
		expired := c.CreatedAt.Before(cutoff)
		if c.ResolvedAt != nil {
			expired = c.ResolvedAt.Before(cutoff)
		}
		if !expired {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

// save writes the queue atomically via temp file + rename
func (q *Queue) save(cases []model.ReviewCase) error {
	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal queue: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(q.path), 0755); err != nil {
		return fmt.Errorf("create queue dir: %w", err)
	}

	tmp := q.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write queue: %w", err)
	}
	if err := os.Rename(tmp, q.path); err != nil {
		return fmt.Errorf("replace queue: %w", err)
	}
	return nil
}

func newCaseID(filePath string, createdAt time.Time) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", filePath, createdAt.UnixNano())))
	return hex.EncodeToString(hash[:6])
}
