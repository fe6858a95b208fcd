package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanPlace(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "D", 0)

	tests := []struct {
		name   string
		tile   string
		rot    int
		at     Coord
		ok     bool
		reason string
	}{
		{"city meets city", "E", 180, Coord{0, -1}, true, "OK"},
		{"field against city", "E", 0, Coord{0, -1}, false, "Edge mismatch S: field vs neighbor N: city"},
		{"road continues east", "U", 90, Coord{1, 0}, true, "OK"},
		{"occupied", "U", 0, Coord{0, 0}, false, "Cell occupied."},
		{"detached", "U", 0, Coord{2, 2}, false, "Tile must touch at least one placed tile."},
		{"out of bounds", "U", 0, Coord{13, 0}, false, "Out of board bounds."},
		{"bad rotation", "U", 45, Coord{1, 0}, false, "Rotation must be one of 0, 90, 180, 270."},
		{"unknown tile", "ZZ", 0, Coord{1, 0}, false, "Unknown tile ZZ."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := e.CanPlace(b, tt.tile, tt.rot, tt.at)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestCanPlaceEmptyBoard(t *testing.T) {
	e := baseEngine(t)
	ok, reason := e.CanPlace(Board{}, "X", 0, Coord{3, -4})
	assert.True(t, ok, reason)
}

func TestBuildFrontier(t *testing.T) {
	e := baseEngine(t)

	assert.Equal(t, []Coord{{0, 0}}, e.BuildFrontier(Board{}))

	b := Board{}
	put(b, 0, 0, 1, "D", 0)
	assert.Equal(t, []Coord{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}, e.BuildFrontier(b))

	edge := Board{}
	put(edge, 12, 0, 1, "D", 0)
	assert.NotContains(t, e.BuildFrontier(edge), Coord{13, 0})
}

func TestHasAnyPlacement(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "C", 0)

	assert.True(t, e.HasAnyPlacement(b, "E"))
	assert.False(t, e.HasAnyPlacement(b, "B"), "a field-only tile cannot touch a walled city")
}

func TestBoardCellsRowMajor(t *testing.T) {
	b := Board{}
	put(b, 1, 0, 1, "D", 0)
	put(b, -1, 1, 2, "U", 0)
	put(b, 0, 0, 3, "U", 0)
	put(b, 5, -1, 4, "U", 0)

	var got []Coord
	for _, c := range b.Cells() {
		got = append(got, c.Coord)
	}
	assert.Equal(t, []Coord{{5, -1}, {0, 0}, {1, 0}, {-1, 1}}, got)
}

func TestBoardClone(t *testing.T) {
	b := Board{}
	put(b, 0, 0, 1, "D", 0, Meeple{Player: 1, FeatureLocalID: "road1"})
	cp := b.Clone()
	cp[Coord{0, 0}].Meeples[0].Player = 2
	assert.Equal(t, 1, b[Coord{0, 0}].Meeples[0].Player)
}

func TestBoardCloneKeepsEmptyMeeples(t *testing.T) {
	b := Board{}
	b[Coord{0, 0}] = &TileInstance{InstID: 1, TileID: "D", Meeples: []Meeple{}}
	put(b, 1, 0, 2, "D", 0)

	cp := b.Clone()
	assert.Equal(t, b, cp)
	assert.NotNil(t, cp[Coord{0, 0}].Meeples)
	assert.Nil(t, cp[Coord{1, 0}].Meeples)

	orig, err := json.Marshal(b[Coord{0, 0}])
	require.NoError(t, err)
	cloned, err := json.Marshal(cp[Coord{0, 0}])
	require.NoError(t, err)
	assert.JSONEq(t, string(orig), string(cloned))
	assert.Contains(t, string(cloned), `"meeples":[]`)
}
