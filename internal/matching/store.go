package matching

import (
	"context"
	"sync"
)

// Store persists match results. Upsert must be idempotent per
// (profile, opportunity) pair: recomputing overwrites the prior result
// without creating duplicates.
type Store interface {
	Upsert(ctx context.Context, result *MatchResult) error
}

// MemoryStore keeps match results in memory, keyed by profile and
// opportunity. Useful for tests and offline runs.
type MemoryStore struct {
	mu      sync.Mutex
	results map[string]*MatchResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]*MatchResult)}
}

func (s *MemoryStore) Upsert(_ context.Context, result *MatchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[resultKey(result.ProfileID, result.OpportunityID)] = result
	return nil
}

func (s *MemoryStore) Get(profileID, opportunityID string) *MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results[resultKey(profileID, opportunityID)]
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

func resultKey(profileID, opportunityID string) string {
	return profileID + "_" + opportunityID
}
