package store

import (
	"context"
	"sort"
	"sync"

	"github.com/moldovancsaba/narimato-sub003/internal/model"
)

// GlobalRankingStore persists the per-tenant leaderboard the ELO
// aggregator writes. Entries are upsert-only and overwritten in bulk,
// never partially — a recompute run is all-or-nothing.
type GlobalRankingStore interface {
	// Get returns the current entry for (tenantID, cardID), or found=false
	// if the card has never been observed in a vote.
	Get(ctx context.Context, tenantID, cardID string) (entry model.GlobalRankingEntry, found bool, err error)

	// BulkUpsert atomically replaces every entry in entries. Partial
	// failure must not leave a mix of old and new ratings visible.
	BulkUpsert(ctx context.Context, entries []model.GlobalRankingEntry) error

	// List returns every entry for a tenant ordered by the leaderboard
	// tie-break: eloRating desc, winRate desc, games desc, lastUpdated
	// desc, cardId asc.
	List(ctx context.Context, tenantID string) ([]model.GlobalRankingEntry, error)
}

// InMemoryGlobalRankingStore is a map-backed GlobalRankingStore.
type InMemoryGlobalRankingStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]model.GlobalRankingEntry // tenantID -> cardID -> entry
}

// NewInMemoryGlobalRankingStore constructs an empty store.
func NewInMemoryGlobalRankingStore() *InMemoryGlobalRankingStore {
	return &InMemoryGlobalRankingStore{
		entries: make(map[string]map[string]model.GlobalRankingEntry),
	}
}

func (s *InMemoryGlobalRankingStore) Get(ctx context.Context, tenantID, cardID string) (model.GlobalRankingEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenantEntries, ok := s.entries[tenantID]
	if !ok {
		return model.GlobalRankingEntry{}, false, nil
	}
	entry, ok := tenantEntries[cardID]
	return entry, ok, nil
}

func (s *InMemoryGlobalRankingStore) BulkUpsert(ctx context.Context, entries []model.GlobalRankingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if s.entries[e.TenantID] == nil {
			s.entries[e.TenantID] = make(map[string]model.GlobalRankingEntry)
		}
		s.entries[e.TenantID][e.CardID] = e
	}
	return nil
}

func (s *InMemoryGlobalRankingStore) List(ctx context.Context, tenantID string) ([]model.GlobalRankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenantEntries := s.entries[tenantID]
	result := make([]model.GlobalRankingEntry, 0, len(tenantEntries))
	for _, e := range tenantEntries {
		result = append(result, e)
	}

	sort.Slice(result, func(i, j int) bool {
		return Less(result[i], result[j])
	})
	return result, nil
}

// Less implements the leaderboard total order: eloRating desc, winRate
// desc, games desc, lastUpdated desc, cardId asc. List sorts with it, so
// the HTTP leaderboard handler gets this order; it is exported so code
// outside the package can apply the exact same comparison.
func Less(a, b model.GlobalRankingEntry) bool {
	if a.EloRating != b.EloRating {
		return a.EloRating > b.EloRating
	}
	if a.WinRate != b.WinRate {
		return a.WinRate > b.WinRate
	}
	if a.TotalGames != b.TotalGames {
		return a.TotalGames > b.TotalGames
	}
	if !a.LastUpdated.Equal(b.LastUpdated) {
		return a.LastUpdated.After(b.LastUpdated)
	}
	return a.CardID < b.CardID
}
