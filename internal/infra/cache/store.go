package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
)

const (
	// LatestKey is the single slot holding the last successful analysis.
	LatestKey = "latestAnalysis"
	// EnvelopeVersion is bumped whenever the stored result shape changes.
	EnvelopeVersion = 1
)

type envelope struct {
	Version int              `json:"version"`
	SavedAt time.Time        `json:"saved_at"`
	Result  *analysis.Result `json:"result"`
}

// ResultStore implements analysis.ResultStore on top of a KV backend.
type ResultStore struct {
	kv  KV
	now func() time.Time
}

var _ analysis.ResultStore = (*ResultStore)(nil)

func NewResultStore(kv KV) *ResultStore {
	return &ResultStore{kv: kv, now: time.Now}
}

// Save replaces the stored result.
func (s *ResultStore) Save(ctx context.Context, r *analysis.Result) error {
	if r == nil {
		return errors.New("cache: nil result")
	}
	b, err := json.Marshal(envelope{Version: EnvelopeVersion, SavedAt: s.now().UTC(), Result: r})
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return s.kv.Set(ctx, LatestKey, b)
}

// Load returns the stored result. Unreadable entries are cleared and reported absent.
func (s *ResultStore) Load(ctx context.Context) (*analysis.Result, bool) {
	b, err := s.kv.Get(ctx, LatestKey)
	if errors.Is(err, ErrNotFound) {
		return nil, false
	}
	if err != nil {
		log.Printf("cache read failed key=%s err=%v", LatestKey, err)
		s.discard(ctx)
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		log.Printf("cache entry corrupt key=%s err=%v", LatestKey, err)
		s.discard(ctx)
		return nil, false
	}
	if env.Version != EnvelopeVersion || env.Result == nil {
		log.Printf("cache entry unsupported key=%s version=%d", LatestKey, env.Version)
		s.discard(ctx)
		return nil, false
	}
	return env.Result, true
}

// Clear removes the stored result.
func (s *ResultStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, LatestKey)
}

func (s *ResultStore) discard(ctx context.Context) {
	if err := s.kv.Delete(ctx, LatestKey); err != nil {
		log.Printf("cache clear failed key=%s err=%v", LatestKey, err)
	}
}
