// Package lobby owns every connected user, pending invite, chat line and
// live match. All operations run under one mutex and start by expiring
// stale sessions and invites.
package lobby

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	game_constants "Meeple/constants/game"
	"Meeple/errs"
	"Meeple/services/engine"
	"Meeple/services/match"

	"go.uber.org/zap"
)

// Archiver receives a final snapshot of every concluded match. It is
// called without the coordinator lock held.
type Archiver interface {
	ArchiveMatch(ctx context.Context, v match.View) error
}

type Options struct {
	SessionTimeout time.Duration
	InviteTimeout  time.Duration
	Rand           *rand.Rand
	Now            func() time.Time
	Logger         *zap.Logger
	Archiver       Archiver
}

type User struct {
	ID          string
	Token       string
	Name        string
	JoinedAt    time.Time
	LastSeen    time.Time
	MatchID     string
	LastMatchID string
}

type Coordinator struct {
	mu sync.Mutex

	engine         *engine.Engine
	sessionTimeout time.Duration
	inviteTimeout  time.Duration
	rng            *rand.Rand
	now            func() time.Time
	log            *zap.Logger
	archiver       Archiver

	users   map[string]*User
	byToken map[string]string
	invites map[string]*Invite
	matches map[string]*match.Match
	chat    []ChatMessage

	nextUser, nextInvite, nextMatch, nextChat int

	// snapshots of matches concluded during the current operation
	concluded []match.View
}

func New(eng *engine.Engine, opts Options) *Coordinator {
	c := &Coordinator{
		engine:         eng,
		sessionTimeout: opts.SessionTimeout,
		inviteTimeout:  opts.InviteTimeout,
		rng:            opts.Rand,
		now:            opts.Now,
		log:            opts.Logger,
		archiver:       opts.Archiver,
		users:          map[string]*User{},
		byToken:        map[string]string{},
		invites:        map[string]*Invite{},
		matches:        map[string]*match.Match{},
		nextUser:       1,
		nextInvite:     1,
		nextMatch:      1,
		nextChat:       1,
	}
	if c.sessionTimeout <= 0 {
		c.sessionTimeout = game_constants.SessionTimeout
	}
	if c.inviteTimeout <= 0 {
		c.inviteTimeout = game_constants.InviteTimeout
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Engine exposes the rules engine the coordinator plays with.
func (c *Coordinator) Engine() *engine.Engine { return c.engine }

// enter takes the lock and runs the opportunistic cleanup.
func (c *Coordinator) enter() {
	c.mu.Lock()
	c.cleanup()
}

// leave releases the lock, then hands concluded matches to the archiver.
func (c *Coordinator) leave() {
	done := c.concluded
	c.concluded = nil
	c.mu.Unlock()

	if c.archiver == nil {
		return
	}
	for _, v := range done {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := c.archiver.ArchiveMatch(ctx, v); err != nil {
			c.log.Warn("archive match failed", zap.String("match_id", v.ID), zap.Error(err))
		}
		cancel()
	}
}

func (c *Coordinator) newID(prefix string, seq *int) string {
	id := fmt.Sprintf("%s%d", prefix, *seq)
	*seq++
	return id
}

// auth resolves a token and refreshes the session.
func (c *Coordinator) auth(token string) (*User, error) {
	uid, ok := c.byToken[token]
	if !ok || token == "" {
		return nil, errs.Auth("Invalid session token.")
	}
	u, ok := c.users[uid]
	if !ok {
		delete(c.byToken, token)
		return nil, errs.Auth("Invalid session token.")
	}
	u.LastSeen = c.now()
	return u, nil
}

// available reports whether u may be invited or start a match.
func (c *Coordinator) available(u *User) bool {
	if u.MatchID == "" {
		return true
	}
	m, ok := c.matches[u.MatchID]
	return !ok || !m.Active()
}

func (c *Coordinator) statusOf(u *User) string {
	if c.available(u) {
		return "available"
	}
	return "unavailable"
}

func (c *Coordinator) cleanup() {
	now := c.now()

	var stale []string
	for id, u := range c.users {
		if now.Sub(u.LastSeen) > c.sessionTimeout {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	for _, id := range stale {
		c.removeUser(id, true)
	}

	for _, inv := range c.invites {
		if inv.Status == InvitePending && now.Sub(inv.CreatedAt) > c.inviteTimeout {
			inv.close(InviteExpired, now)
		}
	}
}

// removeUser drops a session, expiring its invites and aborting its match.
func (c *Coordinator) removeUser(id string, timedOut bool) {
	u, ok := c.users[id]
	if !ok {
		return
	}
	delete(c.users, id)
	delete(c.byToken, u.Token)

	now := c.now()
	for _, inv := range c.invites {
		if inv.Status == InvitePending && inv.touches(id) {
			inv.close(InviteExpired, now)
		}
	}
	if u.MatchID != "" {
		c.abortMatch(u.MatchID, u.Name+" disconnected.")
	}

	if timedOut {
		c.log.Info("session timed out", zap.String("user_id", id))
		c.pushChat(u.Name+" disconnected.", nil)
	} else {
		c.log.Info("user left", zap.String("user_id", id))
		c.pushChat(u.Name+" left the lobby.", nil)
	}
}

func (c *Coordinator) abortMatch(id, reason string) {
	m, ok := c.matches[id]
	if !ok {
		return
	}
	if m.Active() {
		m.Abort(reason)
		c.concludedMatch(m)
	}
	c.detach(m)
}

// detach moves both players of m from current to last match.
func (c *Coordinator) detach(m *match.Match) {
	for _, uid := range m.Players {
		if u, ok := c.users[uid]; ok && u.MatchID == m.ID {
			u.MatchID = ""
			u.LastMatchID = m.ID
		}
	}
}

// concludedMatch records the end of m. Finished matches announce the
// result and release their players.
func (c *Coordinator) concludedMatch(m *match.Match) {
	if m.Status == match.StatusFinished {
		c.pushChat(m.ResultLine(func(p int) string { return c.playerName(m, p) }), nil)
		c.detach(m)
	}
	c.log.Info("match concluded",
		zap.String("match_id", m.ID),
		zap.String("status", string(m.Status)),
		zap.Int("score_1", m.Score[1]),
		zap.Int("score_2", m.Score[2]),
	)
	c.concluded = append(c.concluded, m.Snapshot("", c.nameOf))
}

func (c *Coordinator) nameOf(userID string) (string, bool) {
	u, ok := c.users[userID]
	if !ok {
		return "", false
	}
	return u.Name, true
}

func (c *Coordinator) playerName(m *match.Match, p int) string {
	if n, ok := c.nameOf(m.Players[p]); ok {
		return n
	}
	return fmt.Sprintf("P%d", p)
}
