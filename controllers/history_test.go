package controllers_test

import (
	"context"
	"math/rand"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"Meeple/data"
	"Meeple/middleware"
	"Meeple/models/postgres"
	"Meeple/routes"
	"Meeple/services/engine"
	"Meeple/services/lobby"
	"Meeple/services/match"
	"Meeple/services/overrides"
	"Meeple/sync"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newHistoryAPI(t *testing.T) (*apiFixture, *sync.SyncManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&postgres.MatchRecord{}))
	archive := sync.NewSyncManager(db, nil)

	ts, err := engine.LoadTileSet(data.BaseTileSet())
	require.NoError(t, err)
	eng, err := engine.New(ts)
	require.NoError(t, err)
	lc := lobby.New(eng, lobby.Options{Rand: rand.New(rand.NewSource(2)), Archiver: archive})
	store := overrides.NewFileStore(filepath.Join(t.TempDir(), "overrides.json"))

	r := gin.New()
	middleware.SetUpMiddleware(r, "test-key", false)
	routes.SetupRoutes(r, routes.Services{Lobby: lc, Overrides: store, OverridesTarget: "overrides.json", History: archive})
	return &apiFixture{router: r, store: store}, archive
}

func archivedView(id, opponent string, minutes int, s1, s2 int) match.View {
	created := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	finished := created.Add(time.Duration(minutes) * time.Minute)
	return match.View{
		ID:         id,
		Status:     match.StatusFinished,
		CreatedAt:  created,
		FinishedAt: &finished,
		TurnIndex:  9,
		Players: []match.PlayerView{
			{Player: 1, UserID: "u1", Name: "Ana", Score: s1},
			{Player: 2, UserID: opponent, Name: "Bo", Score: s2},
		},
		Board: []match.BoardEntry{
			{Coord: engine.Coord{}, Instance: engine.TileInstance{InstID: 1, TileID: "D", Meeples: []engine.Meeple{}}},
		},
		ScoredKeys: []string{},
		LastEvent:  "Match finished.",
	}
}

func TestHistory(t *testing.T) {
	f, archive := newHistoryAPI(t)
	ctx := context.Background()
	require.NoError(t, archive.ArchiveMatch(ctx, archivedView("m1", "u2", 10, 8, 3)))
	require.NoError(t, archive.ArchiveMatch(ctx, archivedView("m2", "u2", 30, 4, 4)))
	require.NoError(t, archive.ArchiveMatch(ctx, archivedView("m3", "u9", 20, 0, 1)))
	require.NoError(t, archive.ArchiveMatch(ctx, archivedView("m4", "u7", 40, 1, 0)))

	token, id := f.join(t, "Ana")
	require.Equal(t, "u1", id)

	t.Run("newest first", func(t *testing.T) {
		code, out := f.do(t, http.MethodGet, "/api/history?limit=2&token="+token, nil)
		require.Equal(t, http.StatusOK, code)
		list := out["matches"].([]any)
		require.Len(t, list, 2)
		first := list[0].(map[string]any)
		assert.Equal(t, "m4", first["id"])
		assert.Equal(t, "u1", first["winner"])
		assert.NotContains(t, first, "board")
		assert.Equal(t, "m2", list[1].(map[string]any)["id"])
		assert.Nil(t, list[1].(map[string]any)["winner"], "draw")
	})

	t.Run("single match", func(t *testing.T) {
		code, out := f.do(t, http.MethodGet, "/api/history/m1", nil, middleware.TokenHeader, token)
		require.Equal(t, http.StatusOK, code)
		m := out["match"].(map[string]any)
		assert.Equal(t, "finished", m["status"])
		assert.Len(t, m["board"], 1)
		assert.Len(t, m["players"], 2)
	})

	t.Run("errors", func(t *testing.T) {
		code, out := f.do(t, http.MethodGet, "/api/history/m404?token="+token, nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Match not found.", out["error"])

		code, _ = f.do(t, http.MethodGet, "/api/history?limit=zero&token="+token, nil)
		assert.Equal(t, http.StatusBadRequest, code)

		code, _ = f.do(t, http.MethodGet, "/api/history", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestHistoryDisabled(t *testing.T) {
	f := newAPI(t)
	code, _ := f.do(t, http.MethodGet, "/api/history", nil)
	assert.Equal(t, http.StatusNotFound, code)
}
