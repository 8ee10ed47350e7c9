package services

import (
	"context"
	"sync"
	"time"

	"github.com/dealdesk/dealdesk-api/internal/refdata"
	"github.com/dealdesk/dealdesk-api/pkg/logger"
)

// FiltersClient is the slice of the core API client the filter service needs.
type FiltersClient interface {
	Filters(ctx context.Context, token, category string) ([]map[string]any, error)
}

// FilterService loads and caches the reference-data snapshot. A load fetches
// every lookup category in one parallel batch; any single failure surfaces as
// one generic error and the previous snapshot is kept. Overlapping loads are
// last-write-wins; only the latest snapshot matters.
type FilterService struct {
	client FiltersClient
	maxAge time.Duration

	mu       sync.RWMutex
	set      *refdata.Set
	loadedAt time.Time
	lastErr  string
}

// NewFilterService creates a new filter service
func NewFilterService(client FiltersClient, maxAge time.Duration) *FilterService {
	return &FilterService{client: client, maxAge: maxAge}
}

// Snapshot returns the cached reference data, loading it with the given
// bearer token when the cache is empty or stale.
func (s *FilterService) Snapshot(ctx context.Context, token string) (*refdata.Set, error) {
	s.mu.RLock()
	set := s.set
	fresh := set != nil && time.Since(s.loadedAt) < s.maxAge
	s.mu.RUnlock()

	if fresh {
		return set, nil
	}
	return s.Refetch(ctx, token)
}

// Cached returns the current snapshot without loading; nil when never loaded.
func (s *FilterService) Cached() *refdata.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// LastError returns the message of the most recent failed load, or "".
func (s *FilterService) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Refetch re-runs the whole batch unconditionally.
func (s *FilterService) Refetch(ctx context.Context, token string) (*refdata.Set, error) {
	type result struct {
		category string
		options  []refdata.Option
		err      error
	}

	results := make(chan result, len(refdata.Categories))
	var wg sync.WaitGroup
	for _, category := range refdata.Categories {
		wg.Add(1)
		go func(category string) {
			defer wg.Done()
			raw, err := s.client.Filters(ctx, token, category)
			if err != nil {
				results <- result{category: category, err: err}
				return
			}
			results <- result{category: category, options: refdata.Normalize(category, raw)}
		}(category)
	}
	wg.Wait()
	close(results)

	categories := make(map[string][]refdata.Option, len(refdata.Categories))
	var failed error
	for r := range results {
		if r.err != nil {
			logger.Warn("Lookup fetch failed", "category", r.category, "error", r.err)
			failed = r.err
			continue
		}
		categories[r.category] = r.options
	}

	if failed != nil {
		// One generic error for the whole batch; no per-category retry.
		s.mu.Lock()
		s.lastErr = ErrFiltersFailed.Error()
		s.mu.Unlock()
		return nil, ErrFiltersFailed
	}

	set := refdata.NewSet(categories)
	s.mu.Lock()
	s.set = set
	s.loadedAt = time.Now()
	s.lastErr = ""
	s.mu.Unlock()

	return set, nil
}
