package http

import (
	"github.com/moldovancsaba/narimato-sub003/internal/elo"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
	"github.com/moldovancsaba/narimato-sub003/internal/play"
)

type startPlayRequest struct {
	TenantID  string `json:"tenantId" binding:"required"`
	DeckTag   string `json:"deckTag" binding:"required"`
	SessionID string `json:"sessionId"`
}

type startPlayResponse struct {
	PlayID         string `json:"playId"`
	CurrentCardID  string `json:"currentCardId"`
	TotalCards     int    `json:"totalCards"`
	IsHierarchical bool   `json:"isHierarchical"`
}

func toStartPlayResponse(r *play.StartPlayResult) startPlayResponse {
	return startPlayResponse{
		PlayID:         r.PlayID,
		CurrentCardID:  r.CurrentCardID,
		TotalCards:     r.TotalCards,
		IsHierarchical: r.IsHierarchical,
	}
}

type swipeRequest struct {
	CardID    string `json:"cardId" binding:"required"`
	Direction string `json:"direction" binding:"required,oneof=left right"`
	Version   *int   `json:"version"`
}

type pairDTO struct {
	CardA string `json:"cardA"`
	CardB string `json:"cardB"`
}

func toPairDTO(p *model.Pair) *pairDTO {
	if p == nil {
		return nil
	}
	return &pairDTO{CardA: p.CardA, CardB: p.CardB}
}

type swipeResponse struct {
	NextCardID     *string  `json:"nextCardId,omitempty"`
	RequiresVoting bool     `json:"requiresVoting"`
	CurrentPair    *pairDTO `json:"currentPair,omitempty"`
	Completed      bool     `json:"completed"`
	NewVersion     int      `json:"newVersion"`
	AlreadyApplied bool     `json:"alreadyApplied"`
}

func toSwipeResponse(r *play.SwipeResult) swipeResponse {
	return swipeResponse{
		NextCardID:     r.NextCardID,
		RequiresVoting: r.RequiresVoting,
		CurrentPair:    toPairDTO(r.CurrentPair),
		Completed:      r.Completed,
		NewVersion:     r.NewVersion,
		AlreadyApplied: r.AlreadyApplied,
	}
}

type voteRequest struct {
	CardA   string `json:"cardA" binding:"required"`
	CardB   string `json:"cardB" binding:"required"`
	Winner  string `json:"winner" binding:"required"`
	Version *int   `json:"version"`
}

type voteResponse struct {
	NextCardID         *string  `json:"nextCardId,omitempty"`
	RequiresMoreVoting bool     `json:"requiresMoreVoting"`
	CurrentPair        *pairDTO `json:"currentPair,omitempty"`
	ReturnToSwipe      bool     `json:"returnToSwipe"`
	Completed          bool     `json:"completed"`
	NewVersion         int      `json:"newVersion"`
	AlreadyApplied     bool     `json:"alreadyApplied"`
}

func toVoteResponse(r *play.VoteResult) voteResponse {
	return voteResponse{
		NextCardID:         r.NextCardID,
		RequiresMoreVoting: r.RequiresMoreVoting,
		CurrentPair:        toPairDTO(r.CurrentPair),
		ReturnToSwipe:      r.ReturnToSwipe,
		Completed:          r.Completed,
		NewVersion:         r.NewVersion,
		AlreadyApplied:     r.AlreadyApplied,
	}
}

type playResponse struct {
	PlayID              string     `json:"playId"`
	TenantID            string     `json:"tenantId"`
	DeckTag             string     `json:"deckTag"`
	Status              string     `json:"status"`
	State               string     `json:"state"`
	Version             int        `json:"version"`
	PersonalRanking     []string   `json:"personalRanking"`
	HierarchicalRanking []string   `json:"hierarchicalRanking,omitempty"`
	CurrentPair         *pairDTO   `json:"currentPair,omitempty"`
	ParentPlayID        string     `json:"parentPlayId,omitempty"`
}

func toPlayResponse(p *model.Play) playResponse {
	return playResponse{
		PlayID:              p.PlayID,
		TenantID:            p.TenantID,
		DeckTag:             p.DeckTag,
		Status:              string(p.Status),
		State:               string(p.State),
		Version:             p.Version,
		PersonalRanking:     p.PersonalRanking,
		HierarchicalRanking: p.HierarchicalRanking,
		CurrentPair:         toPairDTO(p.CurrentPair),
		ParentPlayID:        p.ParentPlayID,
	}
}

type recomputeGlobalResponse struct {
	TenantID       string `json:"tenantId"`
	PlaysScanned   int    `json:"playsScanned"`
	VotesReplayed  int    `json:"votesReplayed"`
	VotesDropped   int    `json:"votesDropped"`
	CardsRated     int    `json:"cardsRated"`
	DurationMillis int64  `json:"durationMillis"`
}

func toRecomputeGlobalResponse(s *elo.Summary) recomputeGlobalResponse {
	return recomputeGlobalResponse{
		TenantID:       s.TenantID,
		PlaysScanned:   s.PlaysScanned,
		VotesReplayed:  s.VotesReplayed,
		VotesDropped:   s.VotesDropped,
		CardsRated:     s.CardsRated,
		DurationMillis: s.DurationMillis,
	}
}

type expirePlaysResponse struct {
	DeletedCount int `json:"deletedCount"`
}

type leaderboardEntryResponse struct {
	CardID      string  `json:"cardId"`
	EloRating   int     `json:"eloRating"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	TotalGames  int     `json:"totalGames"`
	WinRate     float64 `json:"winRate"`
	LastUpdated string  `json:"lastUpdated"`
}

func toLeaderboardResponse(entries []model.GlobalRankingEntry) []leaderboardEntryResponse {
	out := make([]leaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryResponse{
			CardID:      e.CardID,
			EloRating:   e.EloRating,
			Wins:        e.Wins,
			Losses:      e.Losses,
			TotalGames:  e.TotalGames,
			WinRate:     e.WinRate,
			LastUpdated: e.LastUpdated.UTC().Format("2006-01-02T15:04:05.000Z"),
		})
	}
	return out
}
