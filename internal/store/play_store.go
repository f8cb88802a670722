// Package store is the persistence boundary: the rest of the engine
// never embeds storage calls directly, it goes through these
// interfaces. The in-memory implementations here stand in for a real
// document store; the conditional-update discipline (compare-and-swap
// on Version) is what a real findOneAndUpdate-with-version-guard would
// enforce, kept explicit here instead of hidden behind a persistence
// hook.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"
	"github.com/moldovancsaba/narimato-sub003/internal/logger"
	"github.com/moldovancsaba/narimato-sub003/internal/model"

	"go.uber.org/zap"
)

// PlayStore is the persistence surface for Play documents.
type PlayStore interface {
	// Create persists a brand new play. The caller supplies Version 0.
	Create(ctx context.Context, play *model.Play) error

	// Get returns a deep copy of the play, or NotFoundError.
	Get(ctx context.Context, playID string) (*model.Play, error)

	// Update performs a conditional write: it succeeds only if the
	// stored play's Version still equals expectedVersion, then bumps
	// Version by one. On mismatch it returns ConcurrentModificationError
	// and leaves the stored play untouched.
	Update(ctx context.Context, play *model.Play, expectedVersion int) error

	// Delete removes a play (used by the expiry sweeper).
	Delete(ctx context.Context, playID string) error

	// ListCompleted returns up to limit completed plays for tenantID,
	// most recently completed first, each with at least one vote — the
	// bounded window the ELO aggregator replays.
	ListCompleted(ctx context.Context, tenantID string, limit int) ([]*model.Play, error)

	// ListExpired returns every play whose expiresAt has passed as of
	// now, across all tenants, for the background sweeper. Plays with
	// status completed or expired are not returned.
	ListExpired(ctx context.Context, now time.Time) ([]*model.Play, error)
}

// InMemoryPlayStore is a map-backed PlayStore guarded by a single mutex;
// every read returns a DeepCopy so callers can never mutate stored state
// behind the store's back.
type InMemoryPlayStore struct {
	mu    sync.RWMutex
	plays map[string]*model.Play
}

// NewInMemoryPlayStore constructs an empty store.
func NewInMemoryPlayStore() *InMemoryPlayStore {
	return &InMemoryPlayStore{
		plays: make(map[string]*model.Play),
	}
}

func (s *InMemoryPlayStore) Create(ctx context.Context, play *model.Play) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plays[play.PlayID]; exists {
		return &domainerrors.DuplicateInputError{PlayID: play.PlayID, Detail: "play already exists"}
	}

	s.plays[play.PlayID] = play.DeepCopy()

	logger.WithPlay(play.TenantID, play.PlayID).Debug("play created",
		zap.String("deck_tag", play.DeckTag),
		zap.Int("deck_size", len(play.Deck)))

	return nil
}

func (s *InMemoryPlayStore) Get(ctx context.Context, playID string) (*model.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	play, exists := s.plays[playID]
	if !exists {
		return nil, &domainerrors.NotFoundError{Resource: "play", ID: playID}
	}
	return play.DeepCopy(), nil
}

func (s *InMemoryPlayStore) Update(ctx context.Context, play *model.Play, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.plays[play.PlayID]
	if !exists {
		return &domainerrors.NotFoundError{Resource: "play", ID: play.PlayID}
	}

	if existing.Version != expectedVersion {
		return &domainerrors.ConcurrentModificationError{
			PlayID:          play.PlayID,
			ExpectedVersion: expectedVersion,
			ActualVersion:   existing.Version,
		}
	}

	next := play.DeepCopy()
	next.Version = expectedVersion + 1
	next.LastActivity = time.Now()
	s.plays[play.PlayID] = next

	logger.WithPlay(play.TenantID, play.PlayID).Debug("play updated",
		zap.Int("version", next.Version),
		zap.String("status", string(next.Status)),
		zap.String("state", string(next.State)))

	return nil
}

func (s *InMemoryPlayStore) Delete(ctx context.Context, playID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.plays, playID)
	return nil
}

func (s *InMemoryPlayStore) ListCompleted(ctx context.Context, tenantID string, limit int) ([]*model.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*model.Play
	for _, p := range s.plays {
		if p.TenantID != tenantID {
			continue
		}
		if p.Status != model.PlayStatusCompleted {
			continue
		}
		if len(p.Votes) == 0 {
			continue
		}
		matches = append(matches, p.DeepCopy())
	}

	sortByCompletedAtDesc(matches)

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *InMemoryPlayStore) ListExpired(ctx context.Context, now time.Time) ([]*model.Play, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []*model.Play
	for _, p := range s.plays {
		if p.Status == model.PlayStatusCompleted || p.Status == model.PlayStatusExpired {
			continue
		}
		if p.Expired(now) {
			expired = append(expired, p.DeepCopy())
		}
	}
	return expired, nil
}

func sortByCompletedAtDesc(plays []*model.Play) {
	sort.Slice(plays, func(i, j int) bool {
		return completedAt(plays[i]).After(completedAt(plays[j]))
	})
}

func completedAt(p *model.Play) time.Time {
	if p.CompletedAt != nil {
		return *p.CompletedAt
	}
	return time.Time{}
}
