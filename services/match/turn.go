package match

import (
	"fmt"
	"strings"

	game_constants "Meeple/constants/game"
	"Meeple/errs"
	"Meeple/services/engine"
)

// ClearIntent drops the published intent when it belongs to userID or
// when there is none. It works on finished matches too.
func (m *Match) ClearIntent(userID string) {
	if m.Intent == nil || m.Intent.UserID == userID {
		m.Intent = nil
	}
}

// PublishIntent records a preview of the active player's planned move.
// The board is never touched. A locked intent must be a legal placement.
func (m *Match) PublishIntent(userID string, mv Move, locked bool) error {
	if !m.Active() {
		return errNotActive()
	}
	player := m.PlayerOf(userID)
	if player == 0 || player != m.TurnPlayer {
		return errs.Validation("Only the active player can publish placement intent.")
	}
	if m.CurrentTile == "" {
		return errs.Conflict("No tile is currently assigned for this turn.")
	}

	rot := engine.NormalizeRotation(mv.RotDeg)
	if !engine.ValidRotation(rot) {
		return errs.Validation("Rotation must be one of 0, 90, 180, 270.")
	}
	at := engine.Coord{X: mv.X, Y: mv.Y}
	if _, taken := m.Board[at]; taken {
		return errs.Validation("Cell occupied.")
	}

	ok, reason := m.engine.CanPlace(m.Board, m.CurrentTile, rot, at)
	if locked && !ok {
		return errs.Validation(reason)
	}

	var meeple *string
	if fid := strings.TrimSpace(mv.MeepleFeatureID); fid != "" {
		if err := m.checkMeepleFeature(rot, fid); err != nil {
			return err
		}
		meeple = &fid
	}

	m.Intent = &Intent{
		UserID:          userID,
		Player:          player,
		TileID:          m.CurrentTile,
		X:               at.X,
		Y:               at.Y,
		RotDeg:          rot,
		MeepleFeatureID: meeple,
		Locked:          locked,
		Valid:           ok,
	}
	return nil
}

func (m *Match) checkMeepleFeature(rot int, fid string) error {
	tile, err := m.engine.Oriented(m.CurrentTile, rot)
	if err != nil {
		return errs.Validation("Meeple feature id is invalid for the placed tile.")
	}
	f, ok := tile.Feature(fid)
	if !ok {
		return errs.Validation("Meeple feature id is invalid for the placed tile.")
	}
	if !f.Type.Meepleable() {
		return errs.Validation("Meeple cannot be placed on that feature type.")
	}
	return nil
}

// SubmitTurn applies the active player's placement. Any rejection leaves
// the match exactly as it was. On success the turn passes and the next
// tile is offered, which may end the match.
func (m *Match) SubmitTurn(userID, actorName string, mv Move) error {
	if !m.Active() {
		return errNotActive()
	}
	player := m.PlayerOf(userID)
	if player == 0 || player != m.TurnPlayer {
		return errs.Validation("It is not your turn.")
	}
	tileID := m.CurrentTile
	if tileID == "" {
		return errs.Conflict("No tile is currently assigned for this turn.")
	}

	rot := engine.NormalizeRotation(mv.RotDeg)
	if !engine.ValidRotation(rot) {
		return errs.Validation("Rotation must be one of 0, 90, 180, 270.")
	}
	at := engine.Coord{X: mv.X, Y: mv.Y}
	if ok, reason := m.engine.CanPlace(m.Board, tileID, rot, at); !ok {
		return errs.Validation(reason)
	}

	inst := &engine.TileInstance{InstID: m.InstSeq, TileID: tileID, RotDeg: rot, Meeples: []engine.Meeple{}}
	m.Board[at] = inst
	m.InstSeq++
	rollback := func(err error) error {
		delete(m.Board, at)
		m.InstSeq = inst.InstID
		return err
	}

	fid := strings.TrimSpace(mv.MeepleFeatureID)
	if fid != "" {
		if m.MeeplesAvailable[player] <= 0 {
			return rollback(errs.Validation("No meeples remaining for this player."))
		}
		if err := m.checkMeepleFeature(rot, fid); err != nil {
			return rollback(err)
		}
		an, err := m.engine.Analyze(m.Board)
		if err != nil {
			return rollback(fmt.Errorf("analyze board: %w", err))
		}
		g, ok := an.GroupOf(engine.NodeKey(inst.InstID, fid))
		if !ok {
			return rollback(errs.Validation("Failed to analyze selected feature."))
		}
		if g.MeepleCount() > 0 {
			return rollback(errs.Validation("Meeple rule: that connected feature is already occupied."))
		}
		inst.Meeples = append(inst.Meeples, engine.Meeple{Player: player, FeatureLocalID: fid})
		m.MeeplesAvailable[player] = max(0, m.MeeplesAvailable[player]-1)
	}

	if err := m.scoreCompleted(); err != nil {
		if fid != "" {
			m.MeeplesAvailable[player]++
		}
		return rollback(err)
	}

	m.TurnPlayer = Opponent(player)
	m.TurnIndex++
	m.CurrentTile = ""
	m.BurnedTurn = nil
	m.Intent = nil
	m.LastEvent = fmt.Sprintf("%s placed %s at (%d,%d) r%d", actorName, tileID, at.X, at.Y, rot)
	if fid != "" {
		m.LastEvent += " + meeple " + fid + "."
	} else {
		m.LastEvent += "."
	}

	m.offerTile()
	return nil
}

// scoreCompleted awards newly completed groups and returns their meeples.
func (m *Match) scoreCompleted() error {
	an, err := m.engine.Analyze(m.Board)
	if err != nil {
		return fmt.Errorf("analyze board: %w", err)
	}
	awards, closed := engine.Incremental(an, m.ScoredKeys)
	for _, k := range closed {
		m.ScoredKeys[k] = true
	}
	if len(awards) == 0 {
		return nil
	}

	paid := make(map[string]bool, len(awards))
	for _, a := range awards {
		for _, p := range a.Winners {
			m.Score[p] += a.Points
		}
		paid[a.Key] = true
	}

	for _, inst := range m.Board {
		kept := inst.Meeples[:0]
		for _, mp := range inst.Meeples {
			g, ok := an.GroupOf(engine.NodeKey(inst.InstID, mp.FeatureLocalID))
			if !ok || g.Type == engine.FeatureField || !paid[g.Key] {
				kept = append(kept, mp)
				continue
			}
			if mp.Player == 1 || mp.Player == 2 {
				m.MeeplesAvailable[mp.Player] = min(game_constants.MeeplesPerPlayer, m.MeeplesAvailable[mp.Player]+1)
			}
		}
		inst.Meeples = kept
	}
	return nil
}
