package events

// TypePlayCompleted fires whenever a top-level play finalizes, carrying
// its deck tag and final ranking for the global ranking aggregator to
// replay.
const TypePlayCompleted = "play.completed"

// PlayCompletedPayload is the payload carried by TypePlayCompleted.
type PlayCompletedPayload struct {
	PlayID          string   `json:"playId"`
	DeckTag         string   `json:"deckTag"`
	PersonalRanking []string `json:"personalRanking"`
	IsChildPlay     bool     `json:"isChildPlay"`
}

// NewPlayCompletedEvent builds a TypePlayCompleted event.
func NewPlayCompletedEvent(tenantID string, payload PlayCompletedPayload) Event {
	e := NewBaseEvent(TypePlayCompleted, tenantID, payload)
	return &e
}
