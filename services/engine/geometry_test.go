package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatePort(t *testing.T) {
	tests := []struct {
		port string
		rot  int
		want string
	}{
		{"N", 90, "E"},
		{"W", 90, "N"},
		{"Nw", 90, "En"},
		{"Wn", 90, "Ne"},
		{"Se", 180, "Nw"},
		{"Es", 270, "Ne"},
		{"N", -90, "W"},
		{"Sw", 360, "Sw"},
	}
	for _, tt := range tests {
		got, err := RotatePort(tt.port, tt.rot)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s by %d", tt.port, tt.rot)
	}

	_, err := RotatePort("Q", 90)
	assert.Error(t, err)
}

func TestRotatePortFullTurn(t *testing.T) {
	for port := range portRotCW {
		q := port
		for i := 0; i < 4; i++ {
			var err error
			q, err = RotatePort(q, 90)
			require.NoError(t, err)
		}
		assert.Equal(t, port, q)
	}
}

func TestRotate(t *testing.T) {
	ts := baseEngine(t).TileSet()
	def, ok := ts.Tile("D")
	require.True(t, ok)

	t.Run("zero is identity", func(t *testing.T) {
		ot, err := Rotate(def, 0)
		require.NoError(t, err)
		for i, name := range edgeNames {
			assert.Equal(t, def.Edges[name].Primary, ot.Edges[i].Primary)
		}
		for i, f := range def.Features {
			assert.Equal(t, f.Ports, ot.Features[i].Ports)
		}
	})

	t.Run("quarter turn moves the city east", func(t *testing.T) {
		ot, err := Rotate(def, 90)
		require.NoError(t, err)
		assert.Equal(t, "road", ot.Edges[North].Primary)
		assert.Equal(t, "city", ot.Edges[East].Primary)
		assert.Equal(t, "road", ot.Edges[South].Primary)
		city, ok := ot.Feature("city1")
		require.True(t, ok)
		assert.Equal(t, []string{"E"}, city.Ports)
	})

	t.Run("rotation does not alias the definition", func(t *testing.T) {
		ot, err := Rotate(def, 180)
		require.NoError(t, err)
		ot.Features[0].Ports[0] = "X"
		assert.Equal(t, "N", def.Features[0].Ports[0])
	})

	t.Run("bad rotation", func(t *testing.T) {
		_, err := Rotate(def, 45)
		assert.ErrorIs(t, err, ErrBadRotation)
	})
}

func TestOriented(t *testing.T) {
	e := baseEngine(t)

	ot, err := e.Oriented("V", 270)
	require.NoError(t, err)
	assert.Equal(t, 270, ot.Rotation)

	_, err = e.Oriented("V", 30)
	assert.ErrorIs(t, err, ErrBadRotation)

	_, err = e.Oriented("nope", 0)
	assert.Error(t, err)
}

func TestNormalizeRotation(t *testing.T) {
	assert.Equal(t, 270, NormalizeRotation(-90))
	assert.Equal(t, 0, NormalizeRotation(720))
	assert.Equal(t, 90, NormalizeRotation(450))
}

// definitionOf turns an oriented tile back into a base definition so it
// can be rotated again.
func definitionOf(ot OrientedTile) TileDefinition {
	def := TileDefinition{ID: ot.ID, Edges: make(map[string]Edge, 4), Features: ot.Features}
	for i, name := range edgeNames {
		def.Edges[name] = ot.Edges[i]
	}
	return def
}

func TestRotateAllTiles(t *testing.T) {
	ts := baseEngine(t).TileSet()
	for _, def := range ts.Document().Tiles {
		for _, rot := range Rotations {
			t.Run(fmt.Sprintf("%s/%d", def.ID, rot), func(t *testing.T) {
				start, err := Rotate(def, rot)
				require.NoError(t, err)

				cur := start
				for i := 0; i < 4; i++ {
					cur, err = Rotate(definitionOf(cur), 90)
					require.NoError(t, err)
					if i < 3 {
						next, err := Rotate(def, (rot+90*(i+1))%360)
						require.NoError(t, err)
						assert.Equal(t, next.Edges, cur.Edges, "step %d", i+1)
						assert.Equal(t, next.Features, cur.Features, "step %d", i+1)
					}
				}
				assert.Equal(t, start.Edges, cur.Edges)
				assert.Equal(t, start.Features, cur.Features)
			})
		}

		t.Run(def.ID+"/identity", func(t *testing.T) {
			ot, err := Rotate(def, 0)
			require.NoError(t, err)
			for i, name := range edgeNames {
				assert.Equal(t, def.Edges[name].Primary, ot.Edges[i].Primary)
				assert.Equal(t, def.Edges[name].Feature, ot.Edges[i].Feature)
				assert.ElementsMatch(t, def.Edges[name].Halves, ot.Edges[i].Halves)
			}
			require.Len(t, ot.Features, len(def.Features))
			for i, f := range def.Features {
				assert.Equal(t, f.ID, ot.Features[i].ID)
				assert.ElementsMatch(t, f.Ports, ot.Features[i].Ports)
			}
		})
	}
}
