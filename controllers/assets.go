package controllers

import (
	"io"
	"net/http"

	"Meeple/services/engine"
	"Meeple/services/overrides"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary Tile set document
// @Description The loaded tile definitions and supply counts, for client rendering
// @Tags assets
// @Produce json
// @Success 200 {object} object{tiles=[]object,tile_counts=object}
// @Router /api/tileset [get]
func GetTileset(ts *engine.TileSet) gin.HandlerFunc {
	doc := ts.Document()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	}
}

// @Summary Visual override document
// @Tags assets
// @Produce json
// @Success 200 {object} object{schema=object,tiles=object}
// @Failure 500 {object} object{ok=bool,error=string}
// @Router /api/overrides [get]
func GetOverrides(store overrides.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := store.Load(c.Request.Context())
		if err != nil {
			log.Warn("failed to read overrides", zap.Error(err))
			failMsg(c, http.StatusInternalServerError, "Failed to read overrides: "+err.Error())
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// @Summary Replaces the visual override document
// @Description The document is normalized before it is stored
// @Tags assets
// @Accept json
// @Produce json
// @Param body body object true "Override document"
// @Success 200 {object} object{ok=bool,file=string}
// @Failure 400 {object} object{ok=bool,error=string}
// @Failure 500 {object} object{ok=bool,error=string}
// @Router /api/overrides [post]
func SaveOverrides(store overrides.Store, target string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			failMsg(c, http.StatusBadRequest, invalidPayload)
			return
		}
		doc, err := overrides.Decode(raw)
		if err != nil {
			failMsg(c, http.StatusBadRequest, invalidPayload)
			return
		}
		if _, err := store.Save(c.Request.Context(), doc); err != nil {
			log.Warn("failed to save overrides", zap.Error(err))
			failMsg(c, http.StatusInternalServerError, "Failed to save overrides: "+err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "file": target})
	}
}
