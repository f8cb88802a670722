// Package http is the delivery layer: it only ever translates gin
// requests into the engine's operations and back — it holds no domain
// logic of its own.
package http

import (
	"net/http"

	"github.com/moldovancsaba/narimato-sub003/internal/elo"
	"github.com/moldovancsaba/narimato-sub003/internal/expiry"
	"github.com/moldovancsaba/narimato-sub003/internal/model"
	"github.com/moldovancsaba/narimato-sub003/internal/play"
	"github.com/moldovancsaba/narimato-sub003/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler groups the engine components the HTTP layer drives.
type Handler struct {
	engine     *play.Engine
	aggregator *elo.Aggregator
	rankings   store.GlobalRankingStore
	sweeper    *expiry.Sweeper
}

// NewHandler builds a Handler. sweeper backs the operator-facing
// expire-plays endpoint that cmd/cli drives remotely.
func NewHandler(engine *play.Engine, aggregator *elo.Aggregator, rankings store.GlobalRankingStore, sweeper *expiry.Sweeper) *Handler {
	return &Handler{engine: engine, aggregator: aggregator, rankings: rankings, sweeper: sweeper}
}

func (h *Handler) startPlay(c *gin.Context) {
	var req startPlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_request"})
		return
	}

	result, err := h.engine.StartPlay(c.Request.Context(), req.TenantID, req.DeckTag, req.SessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toStartPlayResponse(result))
}

func (h *Handler) swipe(c *gin.Context) {
	playID := c.Param("playId")

	var req swipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_request"})
		return
	}

	result, err := h.engine.Swipe(c.Request.Context(), playID, req.CardID, model.Direction(req.Direction), req.Version)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toSwipeResponse(result))
}

func (h *Handler) vote(c *gin.Context) {
	playID := c.Param("playId")

	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "invalid_request"})
		return
	}

	result, err := h.engine.Vote(c.Request.Context(), playID, req.CardA, req.CardB, req.Winner, req.Version)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toVoteResponse(result))
}

func (h *Handler) getPlay(c *gin.Context) {
	playID := c.Param("playId")

	p, err := h.engine.GetPlay(c.Request.Context(), playID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toPlayResponse(p))
}

func (h *Handler) recomputeGlobal(c *gin.Context) {
	tenantID := c.Param("tenantId")

	summary, err := h.aggregator.RecomputeGlobal(c.Request.Context(), tenantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecomputeGlobalResponse(summary))
}

func (h *Handler) leaderboard(c *gin.Context) {
	tenantID := c.Param("tenantId")

	entries, err := h.rankings.List(c.Request.Context(), tenantID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toLeaderboardResponse(entries))
}

func (h *Handler) expirePlays(c *gin.Context) {
	deleted, err := h.sweeper.SweepOnce(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, expirePlaysResponse{DeletedCount: deleted})
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
