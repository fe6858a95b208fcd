package lobby

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	game_constants "Meeple/constants/game"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

func fold(s string) string { return folder.String(s) }

// sanitizeName collapses whitespace and caps the length of a display name.
func sanitizeName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return game_constants.DefaultPlayerName
	}
	return truncate(name, game_constants.MaxNameLength)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// uniqueName suffixes " (2)", " (3)", ... until no user holds the name,
// ignoring case.
func (c *Coordinator) uniqueName(wanted string) string {
	taken := make(map[string]bool, len(c.users))
	for _, u := range c.users {
		taken[fold(u.Name)] = true
	}
	if !taken[fold(wanted)] {
		return wanted
	}
	for i := 2; ; i++ {
		cand := fmt.Sprintf("%s (%d)", wanted, i)
		if !taken[fold(cand)] {
			return cand
		}
	}
}

func newToken() (string, error) {
	b := make([]byte, game_constants.TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
