package match

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"Meeple/services/engine"
)

type PlayerView struct {
	Player      int    `json:"player"`
	UserID      string `json:"user_id"`
	Name        string `json:"name"`
	Score       int    `json:"score"`
	MeeplesLeft int    `json:"meeples_left"`
}

type TurnView struct {
	Player    int      `json:"player"`
	UserID    string   `json:"user_id"`
	Name      string   `json:"name"`
	TileID    *string  `json:"tile_id"`
	Burned    []string `json:"burned"`
	TurnIndex int      `json:"turn_index"`
}

// BoardEntry serializes as a [coordinate, instance] pair.
type BoardEntry struct {
	Coord    engine.Coord
	Instance engine.TileInstance
}

func (e BoardEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Coord, e.Instance})
}

func (e *BoardEntry) UnmarshalJSON(b []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &e.Coord); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Instance)
}

// View is the snapshot of a match as seen by one user.
type View struct {
	ID               string         `json:"id"`
	Status           Status         `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	FinishedAt       *time.Time     `json:"finished_at"`
	Players          []PlayerView   `json:"players"`
	YouPlayer        *int           `json:"you_player"`
	CanAct           bool           `json:"can_act"`
	YourNextTile     *string        `json:"your_next_tile"`
	Board            []BoardEntry   `json:"board"`
	InstSeq          int            `json:"inst_seq"`
	TurnIndex        int            `json:"turn_index"`
	Remaining        map[string]int `json:"remaining"`
	RemainingTotal   int            `json:"remaining_total"`
	Score            map[int]int    `json:"score"`
	MeeplesAvailable map[int]int    `json:"meeples_available"`
	CurrentTurn      *TurnView      `json:"current_turn"`
	TurnIntent       *Intent        `json:"turn_intent"`
	ScoredKeys       []string       `json:"scored_keys"`
	LastEvent        string         `json:"last_event"`
}

// NameFunc resolves a user id to a display name; ok is false for users
// no longer connected.
type NameFunc func(userID string) (name string, ok bool)

func (m *Match) playerName(p int, names NameFunc) string {
	if n, ok := names(m.Players[p]); ok {
		return n
	}
	return fmt.Sprintf("Player %d", p)
}

// Snapshot builds the view of m for userID. All slices and maps are
// copies.
func (m *Match) Snapshot(userID string, names NameFunc) View {
	v := View{
		ID:               m.ID,
		Status:           m.Status,
		CreatedAt:        m.CreatedAt,
		FinishedAt:       m.FinishedAt,
		InstSeq:          m.InstSeq,
		TurnIndex:        m.TurnIndex,
		Remaining:        make(map[string]int, len(m.Remaining)),
		RemainingTotal:   m.RemainingTotal(),
		Score:            map[int]int{1: m.Score[1], 2: m.Score[2]},
		MeeplesAvailable: map[int]int{1: m.MeeplesAvailable[1], 2: m.MeeplesAvailable[2]},
		ScoredKeys:       make([]string, 0, len(m.ScoredKeys)),
		LastEvent:        m.LastEvent,
	}
	for _, p := range []int{1, 2} {
		v.Players = append(v.Players, PlayerView{
			Player:      p,
			UserID:      m.Players[p],
			Name:        m.playerName(p, names),
			Score:       m.Score[p],
			MeeplesLeft: m.MeeplesAvailable[p],
		})
	}

	if you := m.PlayerOf(userID); you != 0 {
		v.YouPlayer = &you
		v.CanAct = m.Active() && you == m.TurnPlayer
		if next := m.NextTiles[you]; next != "" {
			v.YourNextTile = &next
		}
	}

	for _, cell := range m.Board.Cells() {
		inst := *cell.Instance
		inst.Meeples = append([]engine.Meeple{}, cell.Instance.Meeples...)
		v.Board = append(v.Board, BoardEntry{Coord: cell.Coord, Instance: inst})
	}
	for id, n := range m.Remaining {
		v.Remaining[id] = n
	}
	for k := range m.ScoredKeys {
		v.ScoredKeys = append(v.ScoredKeys, k)
	}
	sort.Strings(v.ScoredKeys)

	if m.Active() {
		turn := &TurnView{
			Player:    m.TurnPlayer,
			UserID:    m.Players[m.TurnPlayer],
			Name:      m.playerName(m.TurnPlayer, names),
			Burned:    append([]string{}, m.BurnedTurn...),
			TurnIndex: m.TurnIndex,
		}
		if m.CurrentTile != "" {
			tile := m.CurrentTile
			turn.TileID = &tile
		}
		v.CurrentTurn = turn
	}
	if m.Intent != nil {
		in := *m.Intent
		v.TurnIntent = &in
	}
	return v
}
