package lobby

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"Meeple/errs"
	"Meeple/services/match"

	"go.uber.org/zap"
)

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteExpired  InviteStatus = "expired"
	InviteCanceled InviteStatus = "canceled"
)

type Invite struct {
	ID          string
	FromUserID  string
	ToUserID    string
	FromName    string
	ToName      string
	Status      InviteStatus
	CreatedAt   time.Time
	RespondedAt *time.Time

	seq int
}

func (inv *Invite) touches(userID string) bool {
	return inv.FromUserID == userID || inv.ToUserID == userID
}

func (inv *Invite) between(a, b string) bool {
	return (inv.FromUserID == a && inv.ToUserID == b) || (inv.FromUserID == b && inv.ToUserID == a)
}

func (inv *Invite) close(status InviteStatus, at time.Time) {
	inv.Status = status
	inv.RespondedAt = &at
}

type InviteView struct {
	ID         string       `json:"id"`
	Status     InviteStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	FromUserID string       `json:"from_user_id"`
	ToUserID   string       `json:"to_user_id"`
	FromName   string       `json:"from_name"`
	ToName     string       `json:"to_name"`

	seq int
}

func (c *Coordinator) inviteView(inv *Invite) InviteView {
	v := InviteView{
		ID:         inv.ID,
		Status:     inv.Status,
		CreatedAt:  inv.CreatedAt,
		FromUserID: inv.FromUserID,
		ToUserID:   inv.ToUserID,
		FromName:   inv.FromName,
		ToName:     inv.ToName,
		seq:        inv.seq,
	}
	if u, ok := c.users[inv.FromUserID]; ok {
		v.FromName = u.Name
	}
	if u, ok := c.users[inv.ToUserID]; ok {
		v.ToName = u.Name
	}
	return v
}

func sortNewestFirst(vs []InviteView) {
	sort.Slice(vs, func(i, j int) bool {
		if !vs[i].CreatedAt.Equal(vs[j].CreatedAt) {
			return vs[i].CreatedAt.After(vs[j].CreatedAt)
		}
		return vs[i].seq > vs[j].seq
	})
}

// SendInvite asks another available user for a match. At most one invite
// may be pending between any two users.
func (c *Coordinator) SendInvite(token, toUserID string) (InviteView, error) {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return InviteView{}, err
	}
	if !c.available(u) {
		return InviteView{}, errs.Conflict("You are currently unavailable.")
	}
	if toUserID == u.ID {
		return InviteView{}, errs.Conflict("Cannot invite yourself.")
	}
	other, ok := c.users[toUserID]
	if !ok {
		return InviteView{}, errs.NotFound("User not found.")
	}
	if !c.available(other) {
		return InviteView{}, errs.Conflict("That player is unavailable.")
	}
	for _, inv := range c.invites {
		if inv.Status == InvitePending && inv.between(u.ID, toUserID) {
			return InviteView{}, errs.Conflict("There is already a pending invite between these players.")
		}
	}

	seq := c.nextInvite
	inv := &Invite{
		ID:         c.newID("i", &c.nextInvite),
		FromUserID: u.ID,
		ToUserID:   other.ID,
		FromName:   u.Name,
		ToName:     other.Name,
		Status:     InvitePending,
		CreatedAt:  c.now(),
		seq:        seq,
	}
	c.invites[inv.ID] = inv
	c.pushChat(u.Name+" invited "+other.Name+".", nil)
	c.log.Debug("invite sent", zap.String("invite_id", inv.ID), zap.String("from", u.ID), zap.String("to", other.ID))
	return c.inviteView(inv), nil
}

// RespondResult carries the declined invite or the newly started match.
type RespondResult struct {
	Invite *InviteView `json:"invite,omitempty"`
	Match  *match.View `json:"match,omitempty"`
}

// RespondInvite accepts or declines an invite addressed to the caller.
// Accepting cancels every other pending invite of both users and starts
// the match.
func (c *Coordinator) RespondInvite(token, inviteID, action string) (RespondResult, error) {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return RespondResult{}, err
	}
	inv, ok := c.invites[inviteID]
	if !ok {
		return RespondResult{}, errs.NotFound("Invite not found.")
	}
	if inv.Status != InvitePending {
		return RespondResult{}, errs.Conflict("Invite is no longer pending.")
	}
	if inv.ToUserID != u.ID {
		return RespondResult{}, errs.Validation("Only the invited user can respond.")
	}
	act := strings.ToLower(strings.TrimSpace(action))
	if act != "accept" && act != "decline" {
		return RespondResult{}, errs.Validation("Action must be 'accept' or 'decline'.")
	}

	now := c.now()
	from, okFrom := c.users[inv.FromUserID]
	to, okTo := c.users[inv.ToUserID]
	if !okFrom || !okTo {
		inv.close(InviteExpired, now)
		return RespondResult{}, errs.Conflict("One of the users is no longer connected.")
	}

	if act == "decline" {
		inv.close(InviteDeclined, now)
		c.pushChat(to.Name+" declined an invite from "+from.Name+".", nil)
		v := c.inviteView(inv)
		return RespondResult{Invite: &v}, nil
	}

	if !c.available(from) {
		inv.close(InviteExpired, now)
		return RespondResult{}, errs.Conflict("Inviting player is no longer available.")
	}
	if !c.available(to) {
		inv.close(InviteExpired, now)
		return RespondResult{}, errs.Conflict("You are currently unavailable.")
	}

	m, err := match.New(c.newID("m", &c.nextMatch), c.engine, from.ID, to.ID, rand.New(rand.NewSource(c.rng.Int63())), c.now)
	if err != nil {
		c.nextMatch--
		return RespondResult{}, err
	}
	inv.close(InviteAccepted, now)
	for _, other := range c.invites {
		if other.Status == InvitePending && (other.touches(from.ID) || other.touches(to.ID)) {
			other.close(InviteCanceled, now)
		}
	}

	c.matches[m.ID] = m
	from.MatchID = m.ID
	to.MatchID = m.ID
	c.pushChat("Match started: "+from.Name+" vs "+to.Name+".", nil)
	c.log.Info("match started", zap.String("match_id", m.ID), zap.String("player_1", from.ID), zap.String("player_2", to.ID))
	if !m.Active() {
		c.concludedMatch(m)
	}

	v := m.Snapshot(u.ID, c.nameOf)
	return RespondResult{Match: &v}, nil
}
