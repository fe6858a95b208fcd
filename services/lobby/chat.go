package lobby

import (
	"strings"

	game_constants "Meeple/constants/game"
	"Meeple/errs"
)

type ChatAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ChatMessage struct {
	ID     string      `json:"id"`
	TS     int64       `json:"ts"`
	Time   string      `json:"time"`
	System bool        `json:"system"`
	Text   string      `json:"text"`
	From   *ChatAuthor `json:"from"`
}

// pushChat appends to the bounded chat history. A nil author marks a
// system line.
func (c *Coordinator) pushChat(text string, from *User) {
	now := c.now()
	msg := ChatMessage{
		ID:     c.newID("c", &c.nextChat),
		TS:     now.Unix(),
		Time:   now.Format("15:04:05"),
		System: from == nil,
		Text:   truncate(text, game_constants.MaxChatStoredLen),
	}
	if from != nil {
		msg.From = &ChatAuthor{ID: from.ID, Name: from.Name}
	}
	c.chat = append(c.chat, msg)
	if over := len(c.chat) - game_constants.MaxChatMessages; over > 0 {
		c.chat = append([]ChatMessage(nil), c.chat[over:]...)
	}
}

func (c *Coordinator) recentChat() []ChatMessage {
	start := max(0, len(c.chat)-game_constants.LobbyChatWindow)
	return append([]ChatMessage{}, c.chat[start:]...)
}

// SendChat posts a user line to the lobby chat.
func (c *Coordinator) SendChat(token, text string) error {
	c.enter()
	defer c.leave()

	u, err := c.auth(token)
	if err != nil {
		return err
	}
	msg := strings.TrimSpace(text)
	if msg == "" {
		return errs.Validation("Message is empty.")
	}
	c.pushChat(truncate(msg, game_constants.MaxChatUserText), u)
	return nil
}
