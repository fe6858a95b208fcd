package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"Meeple/middleware"
	"Meeple/models/postgres"
	"Meeple/services/lobby"

	"github.com/gin-gonic/gin"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// MatchHistory reads concluded matches back from the archive
type MatchHistory interface {
	FindMatch(ctx context.Context, id string) (*postgres.MatchRecord, error)
	RecentMatches(ctx context.Context, userID string, limit int) ([]postgres.MatchRecord, error)
}

type historyPlayer struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

type historyEntry struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Players    []historyPlayer `json:"players"`
	Winner     *string         `json:"winner"`
	Tiles      int             `json:"tiles"`
	TurnIndex  int             `json:"turn_index"`
	LastEvent  string          `json:"last_event"`
	CreatedAt  time.Time       `json:"created_at"`
	FinishedAt *time.Time      `json:"finished_at"`
	Board      json.RawMessage `json:"board,omitempty"`
	ScoredKeys json.RawMessage `json:"scored_keys,omitempty"`
}

func toHistoryEntry(r postgres.MatchRecord, full bool) historyEntry {
	e := historyEntry{
		ID:     r.ID,
		Status: r.Status,
		Players: []historyPlayer{
			{UserID: r.Player1ID, Name: r.Player1Name, Score: r.Score1},
			{UserID: r.Player2ID, Name: r.Player2Name, Score: r.Score2},
		},
		Tiles:      r.Tiles,
		TurnIndex:  r.TurnIndex,
		LastEvent:  r.LastEvent,
		CreatedAt:  r.CreatedAt,
		FinishedAt: r.FinishedAt,
	}
	if w := r.Winner(); w != "" {
		e.Winner = &w
	}
	if full {
		e.Board = json.RawMessage(r.Board)
		e.ScoredKeys = json.RawMessage(r.ScoredKeys)
	}
	return e
}

// @Summary Archived matches of the caller
// @Description Latest concluded matches the caller played, newest first
// @Tags history
// @Produce json
// @Param token query string false "Session token"
// @Param limit query int false "Maximum entries (1-100, default 20)"
// @Success 200 {object} object{ok=bool,matches=[]object}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 401 {object} object{ok=bool,error=string}
// @Router /api/history [get]
func ListHistory(lc *lobby.Coordinator, h MatchHistory) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				failMsg(c, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxHistoryLimit)
		}

		me, err := lc.Whoami(middleware.ResolveToken(c, ""))
		if err != nil {
			fail(c, err)
			return
		}
		records, err := h.RecentMatches(c.Request.Context(), me.ID, limit)
		if err != nil {
			fail(c, err)
			return
		}
		out := make([]historyEntry, 0, len(records))
		for _, r := range records {
			out = append(out, toHistoryEntry(r, false))
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "matches": out})
	}
}

// @Summary Archived match
// @Description One concluded match with its final board
// @Tags history
// @Produce json
// @Param id path string true "Match id"
// @Param token query string false "Session token"
// @Success 200 {object} object{ok=bool,match=object}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 404 {object} object{ok=bool,error=string}
// @Router /api/history/{id} [get]
func GetHistoryMatch(lc *lobby.Coordinator, h MatchHistory) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := lc.Whoami(middleware.ResolveToken(c, "")); err != nil {
			fail(c, err)
			return
		}
		r, err := h.FindMatch(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "match": toHistoryEntry(*r, true)})
	}
}
