package controllers

import (
	"net/http"

	"Meeple/middleware"
	"Meeple/services/lobby"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type tokenRequest struct {
	Token string `json:"token"`
}

type joinRequest struct {
	Name string `json:"name"`
}

// lobbyResponse flattens a lobby snapshot next to the ok flag
type lobbyResponse struct {
	OK bool `json:"ok"`
	lobby.Snapshot
}

// @Summary Joins the lobby
// @Description Opens a session under a sanitized, unique display name and returns its token
// @Tags session
// @Accept json
// @Produce json
// @Param body body object{name=string} true "Display name"
// @Success 200 {object} object{ok=bool,token=string,user=object{id=string,name=string},lobby=object}
// @Failure 400 {object} object{ok=bool,error=string}
// @Router /api/session/join [post]
func Join(lc *lobby.Coordinator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req joinRequest
		if !bindBody(c, &req) {
			return
		}
		res, err := lc.Join(req.Name)
		if err != nil {
			fail(c, err)
			return
		}
		// the token is still returned in the body
		if err := middleware.RememberToken(c, res.Token); err != nil {
			log.Warn("failed to save session cookie", zap.String("user_id", res.User.ID), zap.Error(err))
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":    true,
			"token": res.Token,
			"user":  res.User,
			"lobby": lobbyResponse{OK: true, Snapshot: res.Lobby},
		})
	}
}

// @Summary Keeps a session alive
// @Tags session
// @Accept json
// @Produce json
// @Param body body object{token=string} false "Session token"
// @Success 200 {object} object{ok=bool,ts=integer}
// @Failure 401 {object} object{ok=bool,error=string}
// @Router /api/session/heartbeat [post]
func Heartbeat(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if !bindBody(c, &req) {
			return
		}
		ts, err := lc.Heartbeat(middleware.ResolveToken(c, req.Token))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "ts": ts.Unix()})
	}
}

// @Summary Leaves the lobby
// @Description Ends the session; pending invites expire and an active match is aborted
// @Tags session
// @Accept json
// @Produce json
// @Param body body object{token=string} false "Session token"
// @Success 200 {object} object{ok=bool}
// @Failure 401 {object} object{ok=bool,error=string}
// @Router /api/session/leave [post]
func Leave(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if !bindBody(c, &req) {
			return
		}
		if err := lc.Leave(middleware.ResolveToken(c, req.Token)); err != nil {
			fail(c, err)
			return
		}
		_ = middleware.ForgetToken(c)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// @Summary Lobby snapshot
// @Description Users, pending invites, recent chat and match ids as seen by the caller
// @Tags lobby
// @Produce json
// @Param token query string false "Session token"
// @Success 200 {object} object{ok=bool,you=object,users=[]object,invites_for_me=[]object,invites_sent_by_me=[]object,chat=[]object}
// @Failure 401 {object} object{ok=bool,error=string}
// @Router /api/lobby [get]
func GetLobby(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap, err := lc.Lobby(middleware.ResolveToken(c, ""))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, lobbyResponse{OK: true, Snapshot: snap})
	}
}
