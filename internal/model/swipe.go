package model

import "time"

// Swipe is a single binary like/dislike decision, appended strictly in
// the order consumed.
type Swipe struct {
	CardID    string    `json:"cardId"`
	Direction Direction `json:"direction"`
	Timestamp time.Time `json:"timestamp"`
}
