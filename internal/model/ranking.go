package model

import "time"

// GlobalRankingEntry is one card's row in the tenant-wide leaderboard
// maintained by the ELO aggregator.
type GlobalRankingEntry struct {
	TenantID    string    `json:"tenantId"`
	CardID      string    `json:"cardId"`
	EloRating   int       `json:"eloRating"`
	Wins        int       `json:"wins"`
	Losses      int       `json:"losses"`
	TotalGames  int       `json:"totalGames"`
	WinRate     float64   `json:"winRate"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// StartingEloRating is the rating assigned to any card first observed in
// a vote.
const StartingEloRating = 1000
