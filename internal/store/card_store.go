package store

import (
	"context"
	"sync"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
)

// CardStore is the persistence surface for Card documents. Cards are
// created and soft-deleted externally; the engine only ever reads them.
type CardStore interface {
	// ListActiveByTenant returns every active card for a tenant.
	ListActiveByTenant(ctx context.Context, tenantID string) ([]model.Card, error)

	// GetByID returns a single card regardless of active state.
	GetByID(ctx context.Context, cardID string) (*model.Card, error)

	// Upsert creates or replaces a card. Exposed for the seeding CLI and
	// for tests; the live engine treats card content as externally
	// managed.
	Upsert(ctx context.Context, card model.Card) error
}

// InMemoryCardStore is a map-backed CardStore.
type InMemoryCardStore struct {
	mu    sync.RWMutex
	cards map[string]model.Card
}

// NewInMemoryCardStore constructs an empty store.
func NewInMemoryCardStore() *InMemoryCardStore {
	return &InMemoryCardStore{cards: make(map[string]model.Card)}
}

func (s *InMemoryCardStore) ListActiveByTenant(ctx context.Context, tenantID string) ([]model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Card
	for _, c := range s.cards {
		if c.TenantID == tenantID && c.IsActive {
			result = append(result, c)
		}
	}
	return result, nil
}

func (s *InMemoryCardStore) GetByID(ctx context.Context, cardID string) (*model.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.cards[cardID]
	if !exists {
		return nil, &domainerrors.NotFoundError{Resource: "card", ID: cardID}
	}
	return &c, nil
}

func (s *InMemoryCardStore) Upsert(ctx context.Context, card model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cards[card.CardID] = card
	return nil
}
