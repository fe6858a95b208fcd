package controllers

import (
	"net/http"

	"Meeple/middleware"
	"Meeple/services/lobby"
	"Meeple/services/match"

	"github.com/gin-gonic/gin"
)

const invalidPlacement = "Invalid placement coordinates or rotation."

type moveRequest struct {
	Token           string  `json:"token"`
	X               *int    `json:"x"`
	Y               *int    `json:"y"`
	RotDeg          *int    `json:"rot_deg"`
	MeepleFeatureID *string `json:"meeple_feature_id"`
	Clear           bool    `json:"clear"`
	Locked          bool    `json:"locked"`
}

func (r moveRequest) move() (match.Move, bool) {
	if r.X == nil || r.Y == nil || r.RotDeg == nil {
		return match.Move{}, false
	}
	mv := match.Move{X: *r.X, Y: *r.Y, RotDeg: *r.RotDeg}
	if r.MeepleFeatureID != nil {
		mv.MeepleFeatureID = *r.MeepleFeatureID
	}
	return mv, true
}

// @Summary Match snapshot
// @Description The caller's current match, else their last one, else null
// @Tags match
// @Produce json
// @Param token query string false "Session token"
// @Success 200 {object} object{ok=bool,match=object}
// @Failure 401 {object} object{ok=bool,error=string}
// @Router /api/match [get]
func GetMatch(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, err := lc.MatchSnapshot(middleware.ResolveToken(c, ""))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "match": v})
	}
}

// @Summary Publishes or clears the turn preview
// @Description Non-binding preview of the active player's move; clear removes the caller's own intent
// @Tags match
// @Accept json
// @Produce json
// @Param body body object{token=string,x=integer,y=integer,rot_deg=integer,meeple_feature_id=string,clear=bool,locked=bool} true "Intent"
// @Success 200 {object} object{ok=bool,match=object}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 409 {object} object{ok=bool,error=string}
// @Router /api/match/intent [post]
func PublishIntent(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req moveRequest
		if !bindBody(c, &req) {
			return
		}
		ir := lobby.IntentRequest{Clear: req.Clear, Locked: req.Locked}
		if !req.Clear {
			mv, ok := req.move()
			if !ok {
				failMsg(c, http.StatusBadRequest, invalidPlacement)
				return
			}
			ir.Move = mv
		}
		v, err := lc.PublishIntent(middleware.ResolveToken(c, req.Token), ir)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "match": v})
	}
}

// @Summary Submits the active player's turn
// @Description Places the current tile, optionally with a meeple, scores completed features and passes the turn
// @Tags match
// @Accept json
// @Produce json
// @Param body body object{token=string,x=integer,y=integer,rot_deg=integer,meeple_feature_id=string} true "Move"
// @Success 200 {object} object{ok=bool,match=object}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 409 {object} object{ok=bool,error=string}
// @Router /api/match/submit_turn [post]
func SubmitTurn(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req moveRequest
		if !bindBody(c, &req) {
			return
		}
		mv, ok := req.move()
		if !ok {
			failMsg(c, http.StatusBadRequest, invalidPlacement)
			return
		}
		v, err := lc.SubmitTurn(middleware.ResolveToken(c, req.Token), mv)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "match": v})
	}
}

// @Summary Resigns the current match
// @Tags match
// @Accept json
// @Produce json
// @Param body body object{token=string} false "Session token"
// @Success 200 {object} object{ok=bool}
// @Failure 401 {object} object{ok=bool,error=string}
// @Failure 409 {object} object{ok=bool,error=string}
// @Router /api/match/resign [post]
func Resign(lc *lobby.Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if !bindBody(c, &req) {
			return
		}
		if err := lc.Resign(middleware.ResolveToken(c, req.Token)); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
