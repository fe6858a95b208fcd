package lobby

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Snapshot is the lobby as seen by one user.
type Snapshot struct {
	You             UserView      `json:"you"`
	Users           []UserView    `json:"users"`
	InvitesForMe    []InviteView  `json:"invites_for_me"`
	InvitesSentByMe []InviteView  `json:"invites_sent_by_me"`
	Chat            []ChatMessage `json:"chat"`
	CurrentMatchID  *string       `json:"current_match_id"`
	LastMatchID     *string       `json:"last_match_id"`
}

type JoinResult struct {
	Token string   `json:"token"`
	User  UserRef  `json:"user"`
	Lobby Snapshot `json:"lobby"`
}

// Join opens a session under a sanitized, unique display name.
func (c *Coordinator) Join(name string) (JoinResult, error) {
	c.enter()
	defer c.leave()

	token, err := newToken()
	if err != nil {
		return JoinResult{}, err
	}
	now := c.now()
	u := &User{
		ID:       c.newID("u", &c.nextUser),
		Token:    token,
		Name:     c.uniqueName(sanitizeName(name)),
		JoinedAt: now,
		LastSeen: now,
	}
	c.users[u.ID] = u
	c.byToken[token] = u.ID
	c.pushChat(u.Name+" joined the lobby.", nil)
	c.log.Info("user joined", zap.String("user_id", u.ID), zap.String("name", u.Name))

	return JoinResult{Token: token, User: UserRef{ID: u.ID, Name: u.Name}, Lobby: c.snapshot(u)}, nil
}

// Heartbeat keeps a session alive and returns the server time.
func (c *Coordinator) Heartbeat(token string) (time.Time, error) {
	c.enter()
	defer c.leave()

	if _, err := c.auth(token); err != nil {
		return time.Time{}, err
	}
	return c.now(), nil
}

// Leave ends a session.
func (c *Coordinator) Leave(token string) error {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return err
	}
	c.removeUser(u.ID, false)
	return nil
}

// Whoami resolves a token to its user.
func (c *Coordinator) Whoami(token string) (UserRef, error) {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return UserRef{}, err
	}
	return UserRef{ID: u.ID, Name: u.Name}, nil
}

// Lobby returns the lobby snapshot for the token holder.
func (c *Coordinator) Lobby(token string) (Snapshot, error) {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return Snapshot{}, err
	}
	return c.snapshot(u), nil
}

func (c *Coordinator) snapshot(u *User) Snapshot {
	s := Snapshot{
		You:             UserView{ID: u.ID, Name: u.Name, Status: c.statusOf(u)},
		Users:           make([]UserView, 0, len(c.users)),
		InvitesForMe:    []InviteView{},
		InvitesSentByMe: []InviteView{},
		Chat:            c.recentChat(),
	}

	users := make([]*User, 0, len(c.users))
	for _, other := range c.users {
		users = append(users, other)
	}
	sort.Slice(users, func(i, j int) bool {
		fi, fj := fold(users[i].Name), fold(users[j].Name)
		if fi != fj {
			return fi < fj
		}
		return users[i].ID < users[j].ID
	})
	for _, other := range users {
		s.Users = append(s.Users, UserView{ID: other.ID, Name: other.Name, Status: c.statusOf(other)})
	}

	for _, inv := range c.invites {
		if inv.Status != InvitePending {
			continue
		}
		switch u.ID {
		case inv.ToUserID:
			s.InvitesForMe = append(s.InvitesForMe, c.inviteView(inv))
		case inv.FromUserID:
			s.InvitesSentByMe = append(s.InvitesSentByMe, c.inviteView(inv))
		}
	}
	sortNewestFirst(s.InvitesForMe)
	sortNewestFirst(s.InvitesSentByMe)

	if u.MatchID != "" {
		id := u.MatchID
		s.CurrentMatchID = &id
	}
	if u.LastMatchID != "" {
		id := u.LastMatchID
		s.LastMatchID = &id
	}
	return s
}
