package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	TokenHeader = "X-Session-Token"
	tokenKey    = "token"
)

// ResolveToken picks the session token from the request body value, the
// query string, the X-Session-Token header or the session cookie, in
// that order.
func ResolveToken(c *gin.Context, bodyToken string) string {
	if t := strings.TrimSpace(bodyToken); t != "" {
		return t
	}
	if t := strings.TrimSpace(c.Query(tokenKey)); t != "" {
		return t
	}
	if t := strings.TrimSpace(c.GetHeader(TokenHeader)); t != "" {
		return t
	}
	if t, ok := sessions.Default(c).Get(tokenKey).(string); ok {
		return t
	}
	return ""
}

// RememberToken stores the issued token in the session cookie
func RememberToken(c *gin.Context, token string) error {
	session := sessions.Default(c)
	session.Set(tokenKey, token)
	return session.Save()
}

// ForgetToken drops the token from the session cookie
func ForgetToken(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(tokenKey)
	return session.Save()
}
