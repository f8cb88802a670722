package model

import "time"

// PlayStatus is the coarse lifecycle status of a Play.
type PlayStatus string

const (
	PlayStatusActive            PlayStatus = "active"
	PlayStatusWaitingForChildren PlayStatus = "waiting_for_children"
	PlayStatusCompleted         PlayStatus = "completed"
	PlayStatusExpired           PlayStatus = "expired"
)

// PlayState is the fine-grained state of the swipe/vote state machine.
type PlayState string

const (
	StateSwiping   PlayState = "swiping"
	StateVoting    PlayState = "voting"
	StateCompleted PlayState = "completed"
)

// Direction is a swipe's binary decision.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// HierarchicalPhase tracks where a play is in spawning and splicing
// child sub-sessions.
type HierarchicalPhase string

const (
	PhaseNone      HierarchicalPhase = "none"
	PhaseParents   HierarchicalPhase = "parents"
	PhaseChildren  HierarchicalPhase = "children"
	PhaseFinalized HierarchicalPhase = "finalized"
)

// Pair is an unordered pairing of two cards under comparison. CardA/CardB
// preserve presentation order; Normalized returns the order-independent
// form used for dedup bookkeeping.
type Pair struct {
	CardA string `json:"cardA"`
	CardB string `json:"cardB"`
}

// Normalized returns (min, max) of the pair's two card IDs so that
// {a,b} and {b,a} compare equal.
func (p Pair) Normalized() (string, string) {
	if p.CardA <= p.CardB {
		return p.CardA, p.CardB
	}
	return p.CardB, p.CardA
}

// Matches reports whether this pair contains the same two cards as other,
// regardless of order.
func (p Pair) Matches(other Pair) bool {
	a1, b1 := p.Normalized()
	a2, b2 := other.Normalized()
	return a1 == a2 && b1 == b2
}

// HierarchicalState holds the in-progress bookkeeping the hierarchical
// controller needs to resume spawning and splicing child sub-sessions
// across process restarts. It is populated on any play that has spawned
// child sub-sessions, including a child play (see Play.ParentPlayID)
// whose own ranking forks into grandchildren.
type HierarchicalState struct {
	// Pending holds the parent-eligible cards in personalRanking order
	// that have not yet finished a child sub-session.
	Pending []string `json:"pending"`

	// ActiveChildPlayID is the playId of the child sub-session currently
	// running for Pending[0], if any.
	ActiveChildPlayID string `json:"activeChildPlayId,omitempty"`

	// Results maps a parent card ID to its completed child ranking.
	Results map[string][]string `json:"results"`

	// Depth is this hierarchical pass's nesting depth, 0 at the root.
	Depth int `json:"depth"`
}

// NewHierarchicalState returns a zero-value, ready-to-use state.
func NewHierarchicalState() HierarchicalState {
	return HierarchicalState{
		Pending: nil,
		Results: make(map[string][]string),
	}
}

// Play is one user's run through a deck. It is the sole mutable unit of
// persistence in the engine; every mutation goes through an optimistic
// version check (see internal/store).
type Play struct {
	PlayID   string `json:"playId"`
	TenantID string `json:"tenantId"`
	// SessionID is the browser session that started the play. It is
	// informational only — the engine never uses it for authorization.
	SessionID string `json:"sessionId"`

	DeckUUID string `json:"deckUuid"`
	DeckTag  string `json:"deckTag"`
	Deck     []string `json:"deck"`

	Status PlayStatus `json:"status"`
	State  PlayState  `json:"state"`

	Version int `json:"version"`

	CreatedAt     time.Time  `json:"createdAt"`
	LastActivity  time.Time  `json:"lastActivity"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	ExpiresAt     time.Time  `json:"expiresAt"`

	Swipes []Swipe `json:"swipes"`
	Votes  []Vote  `json:"votes"`

	PersonalRanking []string `json:"personalRanking"`
	CurrentPair     *Pair    `json:"currentPair,omitempty"`

	HierarchicalPhase  HierarchicalPhase  `json:"hierarchicalPhase"`
	HierarchicalRanking []string          `json:"hierarchicalRanking,omitempty"`
	ParentPlayID       string             `json:"parentPlayId,omitempty"`
	HierarchicalState  *HierarchicalState `json:"hierarchicalState,omitempty"`
}

// IsChildPlay reports whether this play was spawned as a child
// sub-session of another play.
func (p *Play) IsChildPlay() bool {
	return p.ParentPlayID != ""
}

// Expired reports whether now has passed the play's expiry.
func (p *Play) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// HasSwiped reports whether cardID already has a recorded swipe.
func (p *Play) HasSwiped(cardID string) bool {
	for _, s := range p.Swipes {
		if s.CardID == cardID {
			return true
		}
	}
	return false
}

// NextUnswiped returns the first deck entry with no recorded swipe, and
// false if every card has been swiped.
func (p *Play) NextUnswiped() (string, bool) {
	for _, cardID := range p.Deck {
		if !p.HasSwiped(cardID) {
			return cardID, true
		}
	}
	return "", false
}

// InRanking reports whether cardID is already present in personalRanking.
func (p *Play) InRanking(cardID string) bool {
	for _, id := range p.PersonalRanking {
		if id == cardID {
			return true
		}
	}
	return false
}

// DeepCopy returns an independent copy of the play so callers holding a
// reference from a store Get cannot mutate shared state.
func (p *Play) DeepCopy() *Play {
	cp := *p
	cp.Deck = append([]string(nil), p.Deck...)
	cp.Swipes = append([]Swipe(nil), p.Swipes...)
	cp.Votes = append([]Vote(nil), p.Votes...)
	cp.PersonalRanking = append([]string(nil), p.PersonalRanking...)
	if p.HierarchicalRanking != nil {
		cp.HierarchicalRanking = append([]string(nil), p.HierarchicalRanking...)
	}
	if p.CurrentPair != nil {
		pair := *p.CurrentPair
		cp.CurrentPair = &pair
	}
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		cp.CompletedAt = &t
	}
	if p.HierarchicalState != nil {
		hs := *p.HierarchicalState
		hs.Pending = append([]string(nil), p.HierarchicalState.Pending...)
		hs.Results = make(map[string][]string, len(p.HierarchicalState.Results))
		for k, v := range p.HierarchicalState.Results {
			hs.Results[k] = append([]string(nil), v...)
		}
		cp.HierarchicalState = &hs
	}
	return &cp
}
