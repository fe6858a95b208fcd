package engine

import (
	"testing"

	"Meeple/data"

	"github.com/stretchr/testify/require"
)

func baseEngine(t *testing.T) *Engine {
	t.Helper()
	ts, err := LoadTileSet(data.BaseTileSet())
	require.NoError(t, err)
	e, err := New(ts)
	require.NoError(t, err)
	return e
}

// put places a tile on b without any rule checks.
func put(b Board, x, y, inst int, tileID string, rot int, meeples ...Meeple) {
	b[Coord{X: x, Y: y}] = &TileInstance{InstID: inst, TileID: tileID, RotDeg: rot, Meeples: meeples}
}

func groupByNode(t *testing.T, an *Analysis, node string) *Group {
	t.Helper()
	g, ok := an.GroupOf(node)
	require.True(t, ok, "no group for %s", node)
	return g
}
