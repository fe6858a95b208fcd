package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRoadMerge(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "U", 0)

	ok, reason := e.CanPlace(b, "U", 0, Coord{0, 1})
	require.True(t, ok, reason)
	put(b, 0, 1, 2, "U", 0, Meeple{Player: 2, FeatureLocalID: "road1"})

	an, err := e.Analyze(b)
	require.NoError(t, err)
	assert.Len(t, an.Groups, 3)

	road := groupByNode(t, an, "1:road1")
	assert.Same(t, road, groupByNode(t, an, "2:road1"))
	assert.Equal(t, FeatureRoad, road.Type)
	assert.Equal(t, "road|1:road1/2:road1", road.Key)
	assert.Equal(t, 2, road.TileCount())
	assert.Equal(t, []string{"0,0:N", "0,1:S"}, road.OpenPorts)
	assert.False(t, road.Complete)
	assert.Equal(t, 1, road.MeeplesByPlayer[2])
	assert.Equal(t, 1, road.MeepleCount())

	east := groupByNode(t, an, "1:field1")
	assert.Same(t, east, groupByNode(t, an, "2:field1"))
	assert.NotSame(t, east, groupByNode(t, an, "1:field2"))
}

func TestAnalyzeKeysAreStable(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "D", 0)
	put(b, 1, 0, 2, "V", 270)
	put(b, 0, -1, 3, "E", 180)

	keys := func() []string {
		an, err := e.Analyze(b)
		require.NoError(t, err)
		var out []string
		for _, g := range an.SortedGroups() {
			out = append(out, g.Key)
		}
		return out
	}
	first := keys()
	assert.NotEmpty(t, first)
	assert.Equal(t, first, keys())
}

func TestAnalyzeCompletedCity(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "E", 0)
	put(b, 0, -1, 2, "E", 180)

	an, err := e.Analyze(b)
	require.NoError(t, err)

	city := groupByNode(t, an, "1:city1")
	assert.Same(t, city, groupByNode(t, an, "2:city1"))
	assert.True(t, city.Complete)
	assert.Empty(t, city.OpenPorts)
	assert.Equal(t, 4, ScoreValue(city, true))

	for _, node := range []string{"1:field1", "2:field1"} {
		field := groupByNode(t, an, node)
		assert.Equal(t, map[string]bool{city.Key: true}, field.AdjCompletedCities)
	}
	assert.NotSame(t, groupByNode(t, an, "1:field1"), groupByNode(t, an, "2:field1"))
}

func TestAnalyzeOpenCityWithPennant(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "C", 0)

	an, err := e.Analyze(b)
	require.NoError(t, err)
	city := groupByNode(t, an, "1:city1")
	assert.Equal(t, 1, city.Pennants)
	assert.Len(t, city.OpenPorts, 4)
	assert.False(t, city.Complete)
}

func TestAnalyzeCloister(t *testing.T) {
	e := baseEngine(t)

	t.Run("surrounded", func(t *testing.T) {
		b := Board{}
		put(b, 0, 0, 1, "B", 0, Meeple{Player: 1, FeatureLocalID: "cloister"})
		inst := 2
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				put(b, dx, dy, inst, "B", 0)
				inst++
			}
		}
		an, err := e.Analyze(b)
		require.NoError(t, err)

		cl := groupByNode(t, an, "1:cloister")
		assert.True(t, cl.Complete)
		assert.Equal(t, 8, cl.AdjacentCount)
		assert.Equal(t, 9, ScoreValue(cl, cl.Complete))

		field := groupByNode(t, an, "1:field1")
		assert.Len(t, field.Nodes, 9)
	})

	t.Run("partial", func(t *testing.T) {
		b := Board{}
		put(b, 0, 0, 1, "B", 0)
		put(b, 1, 0, 2, "B", 0)
		put(b, 1, 1, 3, "B", 0)
		put(b, 0, 1, 4, "B", 0)
		an, err := e.Analyze(b)
		require.NoError(t, err)

		cl := groupByNode(t, an, "1:cloister")
		assert.False(t, cl.Complete)
		assert.Equal(t, 3, cl.AdjacentCount)
	})
}

func TestAnalyzeUnknownTile(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "nope", 0)
	_, err := e.Analyze(b)
	assert.Error(t, err)
}

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind()
	for _, k := range []string{"a", "b", "c", "d"} {
		uf.Add(k)
	}
	uf.Union("a", "b")
	uf.Union("c", "d")
	assert.Equal(t, uf.Find("a"), uf.Find("b"))
	assert.NotEqual(t, uf.Find("a"), uf.Find("c"))

	uf.Union("b", "d")
	assert.Equal(t, uf.Find("a"), uf.Find("c"))
	assert.True(t, uf.Has("d"))
	assert.False(t, uf.Has("e"))
}
