package routes

import (
	"Meeple/controllers"
	"Meeple/services/lobby"
	"Meeple/services/overrides"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Services are the long-lived components the handlers talk to
type Services struct {
	Lobby     *lobby.Coordinator
	Overrides overrides.Store
	// OverridesTarget names where overrides are written (file name or redis key)
	OverridesTarget string
	// History is nil when no archive database is configured
	History controllers.MatchHistory
	Log     *zap.Logger
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, s Services) {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/ping", controllers.Ping)

	api := router.Group("/api")

	api.GET("/tileset", controllers.GetTileset(s.Lobby.Engine().TileSet()))
	api.GET("/overrides", controllers.GetOverrides(s.Overrides, log))
	api.POST("/overrides", controllers.SaveOverrides(s.Overrides, s.OverridesTarget, log))

	session := api.Group("/session")
	{
		session.POST("/join", controllers.Join(s.Lobby, log))
		session.POST("/heartbeat", controllers.Heartbeat(s.Lobby))
		session.POST("/leave", controllers.Leave(s.Lobby))
	}

	api.GET("/lobby", controllers.GetLobby(s.Lobby))
	api.POST("/chat", controllers.SendChat(s.Lobby))

	api.POST("/invite", controllers.SendInvite(s.Lobby))
	api.POST("/invite/respond", controllers.RespondInvite(s.Lobby))

	matches := api.Group("/match")
	{
		matches.GET("", controllers.GetMatch(s.Lobby))
		matches.POST("/intent", controllers.PublishIntent(s.Lobby))
		matches.POST("/submit_turn", controllers.SubmitTurn(s.Lobby))
		matches.POST("/resign", controllers.Resign(s.Lobby))
	}

	if s.History != nil {
		api.GET("/history", controllers.ListHistory(s.Lobby, s.History))
		api.GET("/history/:id", controllers.GetHistoryMatch(s.Lobby, s.History))
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"ok": false, "error": "Not found"})
	})
}
