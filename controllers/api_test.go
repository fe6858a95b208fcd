package controllers_test

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"Meeple/data"
	"Meeple/middleware"
	"Meeple/routes"
	"Meeple/services/engine"
	"Meeple/services/lobby"
	"Meeple/services/overrides"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	router *gin.Engine
	store  *overrides.FileStore
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ts, err := engine.LoadTileSet(data.BaseTileSet())
	require.NoError(t, err)
	eng, err := engine.New(ts)
	require.NoError(t, err)

	now := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	lc := lobby.New(eng, lobby.Options{
		Rand: rand.New(rand.NewSource(11)),
		Now:  func() time.Time { return now },
	})
	store := overrides.NewFileStore(filepath.Join(t.TempDir(), "overrides.json"))

	r := gin.New()
	middleware.SetUpMiddleware(r, "test-key", false)
	routes.SetupRoutes(r, routes.Services{Lobby: lc, Overrides: store, OverridesTarget: "overrides.json"})
	return &apiFixture{router: r, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, hdr ...string) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func (f *apiFixture) join(t *testing.T, name string) (token, id string) {
	t.Helper()
	code, out := f.do(t, http.MethodPost, "/api/session/join", map[string]any{"name": name})
	require.Equal(t, http.StatusOK, code)
	user := out["user"].(map[string]any)
	return out["token"].(string), user["id"].(string)
}

func TestPing(t *testing.T) {
	f := newAPI(t)
	code, out := f.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", out["message"])
}

func TestJoinAndLobby(t *testing.T) {
	f := newAPI(t)

	code, out := f.do(t, http.MethodPost, "/api/session/join", map[string]any{"name": "  Ana  "})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["ok"])
	token := out["token"].(string)
	assert.Equal(t, "Ana", out["user"].(map[string]any)["name"])
	assert.Equal(t, true, out["lobby"].(map[string]any)["ok"])

	code, out = f.do(t, http.MethodGet, "/api/lobby?token="+token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "available", out["you"].(map[string]any)["status"])
	assert.Len(t, out["users"], 1)
	assert.Nil(t, out["current_match_id"])

	code, out = f.do(t, http.MethodGet, "/api/lobby", nil, middleware.TokenHeader, token)
	assert.Equal(t, http.StatusOK, code)

	code, out = f.do(t, http.MethodPost, "/api/session/heartbeat", map[string]any{"token": token})
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC).Unix(), out["ts"])
}

func TestErrorStatuses(t *testing.T) {
	f := newAPI(t)
	token, id := f.join(t, "Ana")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		msg    string
	}{
		{"bad token", http.MethodGet, "/api/lobby?token=nope", nil, http.StatusUnauthorized, "Invalid session token."},
		{"bad json", http.MethodPost, "/api/chat", "[1,2", http.StatusBadRequest, "Invalid JSON payload"},
		{"empty chat", http.MethodPost, "/api/chat", map[string]any{"token": token, "text": "  "}, http.StatusBadRequest, "Message is empty."},
		{"self invite", http.MethodPost, "/api/invite", map[string]any{"token": token, "to_user_id": id}, http.StatusConflict, "Cannot invite yourself."},
		{"unknown user", http.MethodPost, "/api/invite", map[string]any{"token": token, "to_user_id": "u99"}, http.StatusNotFound, "User not found."},
		{"unknown invite", http.MethodPost, "/api/invite/respond", map[string]any{"token": token, "invite_id": "i9", "action": "accept"}, http.StatusNotFound, "Invite not found."},
		{"no match", http.MethodPost, "/api/match/resign", map[string]any{"token": token}, http.StatusConflict, "You are not in a match."},
		{"missing coords", http.MethodPost, "/api/match/submit_turn", map[string]any{"token": token, "x": 1}, http.StatusBadRequest, "Invalid placement coordinates or rotation."},
		{"unknown route", http.MethodGet, "/api/nothing", nil, http.StatusNotFound, "Not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, code)
			assert.Equal(t, false, out["ok"])
			assert.Equal(t, tt.msg, out["error"])
		})
	}
}

func TestMatchFlow(t *testing.T) {
	f := newAPI(t)
	tokA, _ := f.join(t, "Ana")
	tokB, idB := f.join(t, "Bo")

	code, out := f.do(t, http.MethodPost, "/api/invite", map[string]any{"token": tokA, "to_user_id": idB})
	require.Equal(t, http.StatusOK, code)
	inviteID := out["invite"].(map[string]any)["id"].(string)

	code, out = f.do(t, http.MethodPost, "/api/invite/respond", map[string]any{"token": tokB, "invite_id": inviteID, "action": "ACCEPT"})
	require.Equal(t, http.StatusOK, code)
	m := out["match"].(map[string]any)
	assert.Equal(t, "active", m["status"])
	assert.Len(t, m["board"], 1)

	code, out = f.do(t, http.MethodGet, "/api/match?token="+tokA, nil)
	require.Equal(t, http.StatusOK, code)
	m = out["match"].(map[string]any)
	turn := m["current_turn"].(map[string]any)
	mover, waiter := tokA, tokB
	if m["can_act"] != true {
		mover, waiter = tokB, tokA
	}
	assert.NotNil(t, turn["tile_id"])

	code, out = f.do(t, http.MethodPost, "/api/match/submit_turn", map[string]any{"token": waiter, "x": 0, "y": 1, "rot_deg": 0})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "It is not your turn.", out["error"])

	code, out = f.do(t, http.MethodPost, "/api/match/intent", map[string]any{"token": mover, "x": 0, "y": 0, "rot_deg": 0})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Cell occupied.", out["error"])

	code, _ = f.do(t, http.MethodPost, "/api/match/intent", map[string]any{"token": mover, "clear": true})
	assert.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodPost, "/api/match/resign", map[string]any{"token": waiter})
	require.Equal(t, http.StatusOK, code)

	code, out = f.do(t, http.MethodGet, "/api/match?token="+mover, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "aborted", out["match"].(map[string]any)["status"])
}

func TestMatchSnapshotNull(t *testing.T) {
	f := newAPI(t)
	token, _ := f.join(t, "Ana")

	code, out := f.do(t, http.MethodGet, "/api/match?token="+token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, out, "match")
	assert.Nil(t, out["match"])
}

func TestLeave(t *testing.T) {
	f := newAPI(t)
	token, _ := f.join(t, "Ana")

	code, _ := f.do(t, http.MethodPost, "/api/session/leave", map[string]any{"token": token})
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodPost, "/api/session/heartbeat", nil, middleware.TokenHeader, token)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestTileset(t *testing.T) {
	f := newAPI(t)
	code, out := f.do(t, http.MethodGet, "/api/tileset", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["tiles"], 24)
	assert.EqualValues(t, 4, out["tile_counts"].(map[string]any)["D"])
}

func TestOverrides(t *testing.T) {
	f := newAPI(t)

	code, out := f.do(t, http.MethodGet, "/api/overrides", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, out, "schema")

	code, out = f.do(t, http.MethodPost, "/api/overrides", map[string]any{"tiles": map[string]any{"A": map[string]any{}}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "overrides.json", out["file"])

	code, out = f.do(t, http.MethodGet, "/api/overrides", nil)
	require.Equal(t, http.StatusOK, code)
	tile := out["tiles"].(map[string]any)["A"].(map[string]any)
	assert.Equal(t, map[string]any{}, tile["features"])

	code, out = f.do(t, http.MethodPost, "/api/overrides", "[]")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid JSON payload", out["error"])
}
