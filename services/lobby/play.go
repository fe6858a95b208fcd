package lobby

import (
	"Meeple/errs"
	"Meeple/services/match"

	"go.uber.org/zap"
)

// IntentRequest either publishes or clears the caller's turn preview.
type IntentRequest struct {
	match.Move
	Clear  bool
	Locked bool
}

// MatchSnapshot returns the caller's current match, else their last one,
// else nil.
func (c *Coordinator) MatchSnapshot(token string) (*match.View, error) {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return nil, err
	}
	id := u.MatchID
	if id == "" {
		id = u.LastMatchID
	}
	if id == "" {
		return nil, nil
	}
	m, ok := c.matches[id]
	if !ok {
		if u.MatchID == id {
			u.MatchID = ""
		}
		if u.LastMatchID == id {
			u.LastMatchID = ""
		}
		return nil, nil
	}
	v := m.Snapshot(u.ID, c.nameOf)
	return &v, nil
}

// currentMatch resolves the match the caller is attached to.
func (c *Coordinator) currentMatch(u *User, missing string) (*match.Match, error) {
	if u.MatchID == "" {
		return nil, errs.Conflict(missing)
	}
	m, ok := c.matches[u.MatchID]
	if !ok {
		u.MatchID = ""
		return nil, errs.NotFound("Match not found.")
	}
	return m, nil
}

// PublishIntent records or clears a non-binding preview of the caller's
// move and returns the updated match.
func (c *Coordinator) PublishIntent(token string, req IntentRequest) (*match.View, error) {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return nil, err
	}
	m, err := c.currentMatch(u, "You are not in an active match.")
	if err != nil {
		return nil, err
	}
	if req.Clear {
		m.ClearIntent(u.ID)
	} else if err := m.PublishIntent(u.ID, req.Move, req.Locked); err != nil {
		c.log.Debug("intent rejected", zap.String("match_id", m.ID), zap.String("user_id", u.ID), zap.Error(err))
		return nil, err
	}
	v := m.Snapshot(u.ID, c.nameOf)
	return &v, nil
}

// SubmitTurn applies the caller's move. The match may finish as a result.
func (c *Coordinator) SubmitTurn(token string, mv match.Move) (*match.View, error) {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return nil, err
	}
	m, err := c.currentMatch(u, "You are not in an active match.")
	if err != nil {
		return nil, err
	}
	wasActive := m.Active()
	if err := m.SubmitTurn(u.ID, u.Name, mv); err != nil {
		c.log.Debug("turn rejected", zap.String("match_id", m.ID), zap.String("user_id", u.ID), zap.Error(err))
		return nil, err
	}
	if wasActive && !m.Active() {
		c.concludedMatch(m)
	}
	v := m.Snapshot(u.ID, c.nameOf)
	return &v, nil
}

// Resign aborts the caller's active match.
func (c *Coordinator) Resign(token string) error {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return err
	}
	m, err := c.currentMatch(u, "You are not in a match.")
	if err != nil {
		return err
	}
	if m.Active() {
		c.abortMatch(m.ID, u.Name+" resigned.")
		c.pushChat("Match ended early: "+u.Name+" resigned.", nil)
	}
	return nil
}
