package match

import "sort"

// pickTile draws one tile id weighted by remaining copies, so every
// physical tile is equally likely. It does not consume the tile.
func (m *Match) pickTile() string {
	total := m.RemainingTotal()
	if total <= 0 {
		return ""
	}
	ids := make([]string, 0, len(m.Remaining))
	for id := range m.Remaining {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	r := m.rng.Intn(total) + 1
	acc := 0
	for _, id := range ids {
		n := m.Remaining[id]
		if n <= 0 {
			continue
		}
		acc += n
		if r <= acc {
			return id
		}
	}
	return ""
}

// drawTile draws and consumes one tile, or returns "" when the supply is
// exhausted.
func (m *Match) drawTile() string {
	id := m.pickTile()
	if id != "" {
		m.Remaining[id] = max(0, m.Remaining[id]-1)
	}
	return id
}

// ensureNextTiles pre-draws a tile for every idle player lacking one.
func (m *Match) ensureNextTiles() {
	if !m.Active() {
		return
	}
	for _, p := range []int{1, 2} {
		if p == m.TurnPlayer || m.NextTiles[p] != "" {
			continue
		}
		if id := m.drawTile(); id != "" {
			m.NextTiles[p] = id
		}
	}
}

// offerTile hands the turn player a placeable tile, burning unplaceable
// draws. An empty supply ends the match.
func (m *Match) offerTile() {
	var burned []string
	for {
		id := m.NextTiles[m.TurnPlayer]
		if id != "" {
			delete(m.NextTiles, m.TurnPlayer)
		} else {
			id = m.drawTile()
		}
		if id == "" {
			m.CurrentTile = ""
			m.BurnedTurn = burned
			m.finish()
			return
		}
		if m.engine.HasAnyPlacement(m.Board, id) {
			m.CurrentTile = id
			m.BurnedTurn = burned
			m.Intent = nil
			m.ensureNextTiles()
			return
		}
		burned = append(burned, id)
	}
}
