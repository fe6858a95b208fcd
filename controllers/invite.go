package controllers

import (
	"net/http"

	"Meeple/middleware"
	"Meeple/services/lobby"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Token string `json:"token"`
	Text  string `json:"text"`
}

type inviteRequest struct {
	Token    string `json:"token"`
	ToUserID string `json:"to_user_id"`
}

type respondRequest struct {
	Token    string `json:"token"`
	InviteID string `json:"invite_id"`
	Action   string `json:"action"`
}

// @Summary Posts a chat message
// @Tags lobby
// @Accept json
// @Produce json
// @Param body body object{token=string,text=string} true "Message"
// @Success 200 {object} object{ok=bool}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 401 {object} object{ok=bool,error=string}
// @Router /api/chat [post]
func SendChat(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if !bindBody(c, &req) {
			return
		}
		if err := lc.SendChat(middleware.ResolveToken(c, req.Token), req.Text); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// @Summary Invites another user to a match
// @Tags invite
// @Accept json
// @Produce json
// @Param body body object{token=string,to_user_id=string} true "Invite"
// @Success 200 {object} object{ok=bool,invite=object}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 404 {object} object{ok=bool,error=string}
// @Failure 409 {object} object{ok=bool,error=string}
// @Router /api/invite [post]
func SendInvite(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req inviteRequest
		if !bindBody(c, &req) {
			return
		}
		inv, err := lc.SendInvite(middleware.ResolveToken(c, req.Token), req.ToUserID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "invite": inv})
	}
}

// @Summary Accepts or declines an invite
// @Description Accepting starts the match; declining returns the closed invite
// @Tags invite
// @Accept json
// @Produce json
// @Param body body object{token=string,invite_id=string,action=string} true "accept or decline"
// @Success 200 {object} object{ok=bool,invite=object,match=object}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 404 {object} object{ok=bool,error=string}
// @Failure 409 {object} object{ok=bool,error=string}
// @Router /api/invite/respond [post]
func RespondInvite(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req respondRequest
		if !bindBody(c, &req) {
			return
		}
		res, err := lc.RespondInvite(middleware.ResolveToken(c, req.Token), req.InviteID, req.Action)
		if err != nil {
			fail(c, err)
			return
		}
		out := gin.H{"ok": true}
		if res.Invite != nil {
			out["invite"] = res.Invite
		}
		if res.Match != nil {
			out["match"] = res.Match
		}
		c.JSON(http.StatusOK, out)
	}
}
