// Package match runs the turn state machine of a single two-player match.
// A Match is not safe for concurrent use; the lobby serializes access.
package match

import (
	"fmt"
	"math/rand"
	"time"

	game_constants "Meeple/constants/game"
	"Meeple/errs"
	"Meeple/services/engine"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
	StatusAborted  Status = "aborted"
)

// Intent is a non-binding preview of the active player's next move.
type Intent struct {
	UserID          string  `json:"user_id"`
	Player          int     `json:"player"`
	TileID          string  `json:"tile_id"`
	X               int     `json:"x"`
	Y               int     `json:"y"`
	RotDeg          int     `json:"rot_deg"`
	MeepleFeatureID *string `json:"meeple_feature_id"`
	Locked          bool    `json:"locked"`
	Valid           bool    `json:"valid"`
}

// Move is a placement proposed by a player.
type Move struct {
	X               int
	Y               int
	RotDeg          int
	MeepleFeatureID string
}

// Match holds the full mutable state of one game.
type Match struct {
	ID         string
	Status     Status
	CreatedAt  time.Time
	FinishedAt *time.Time

	Players      map[int]string // player slot -> user id
	UserToPlayer map[string]int

	Board            engine.Board
	InstSeq          int
	Remaining        map[string]int
	Score            map[int]int
	ScoredKeys       map[string]bool
	MeeplesAvailable map[int]int

	TurnPlayer  int
	TurnIndex   int
	CurrentTile string
	BurnedTurn  []string
	NextTiles   map[int]string
	Intent      *Intent
	LastEvent   string

	engine *engine.Engine
	rng    *rand.Rand
	now    func() time.Time
}

// New starts a match between two users: the start tile is put at the
// origin, a random player opens and the first tile is offered. The match
// may already be finished on return when the supply holds no placeable
// tile.
func New(id string, eng *engine.Engine, userA, userB string, rng *rand.Rand, now func() time.Time) (*Match, error) {
	ts := eng.TileSet()
	start := ts.StartTileID()
	if start == "" {
		return nil, fmt.Errorf("tile set has no start tile")
	}

	m := &Match{
		ID:               id,
		Status:           StatusActive,
		CreatedAt:        now(),
		Players:          map[int]string{1: userA, 2: userB},
		UserToPlayer:     map[string]int{userA: 1, userB: 2},
		Board:            engine.Board{},
		InstSeq:          2,
		Remaining:        ts.Counts(),
		Score:            map[int]int{1: 0, 2: 0},
		ScoredKeys:       map[string]bool{},
		MeeplesAvailable: map[int]int{1: game_constants.MeeplesPerPlayer, 2: game_constants.MeeplesPerPlayer},
		TurnPlayer:       1 + rng.Intn(game_constants.PlayersPerMatch),
		TurnIndex:        1,
		NextTiles:        map[int]string{},
		LastEvent:        "Match started.",
		engine:           eng,
		rng:              rng,
		now:              now,
	}
	m.Board[engine.Coord{}] = &engine.TileInstance{InstID: 1, TileID: start, RotDeg: 0, Meeples: []engine.Meeple{}}
	m.Remaining[start] = max(0, m.Remaining[start]-1)

	m.ensureNextTiles()
	m.offerTile()
	return m, nil
}

// Active reports whether the match still accepts moves.
func (m *Match) Active() bool { return m.Status == StatusActive }

// PlayerOf returns the slot of userID, or 0 for outsiders.
func (m *Match) PlayerOf(userID string) int { return m.UserToPlayer[userID] }

// Opponent returns the other slot.
func Opponent(player int) int {
	if player == 1 {
		return 2
	}
	return 1
}

func (m *Match) clearTransient() {
	m.CurrentTile = ""
	m.BurnedTurn = nil
	m.Intent = nil
	m.NextTiles = map[int]string{}
}

// Abort ends an active match early. Scores are left as they are.
func (m *Match) Abort(reason string) {
	if !m.Active() {
		return
	}
	t := m.now()
	m.Status = StatusAborted
	m.FinishedAt = &t
	m.clearTransient()
	m.LastEvent = reason
}

// finish runs end-of-match settlement exactly once.
func (m *Match) finish() {
	if !m.Active() {
		return
	}
	an, err := m.engine.Analyze(m.Board)
	if err == nil {
		for _, a := range engine.Settlement(an, m.ScoredKeys) {
			for _, p := range a.Winners {
				m.Score[p] += a.Points
			}
			m.ScoredKeys[a.Key] = true
		}
	}
	t := m.now()
	m.Status = StatusFinished
	m.FinishedAt = &t
	m.clearTransient()
	m.LastEvent = "Match finished."
}

// ResultLine summarizes a finished match for the lobby chat.
func (m *Match) ResultLine(name func(player int) string) string {
	p1, p2 := m.Score[1], m.Score[2]
	switch {
	case p1 > p2:
		return fmt.Sprintf("Match finished: %s won %d-%d.", name(1), p1, p2)
	case p2 > p1:
		return fmt.Sprintf("Match finished: %s won %d-%d.", name(2), p2, p1)
	}
	return fmt.Sprintf("Match finished: draw %d-%d.", p1, p2)
}

// RemainingTotal is the number of physical tiles left in the supply.
func (m *Match) RemainingTotal() int {
	total := 0
	for _, n := range m.Remaining {
		total += max(0, n)
	}
	return total
}

func errNotActive() error { return errs.Conflict("Match is not active.") }
