package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func group(typ FeatureType, tiles int) *Group {
	g := &Group{Type: typ, Tiles: map[int]bool{}, MeeplesByPlayer: map[int]int{1: 0, 2: 0}, AdjCompletedCities: map[string]bool{}}
	for i := 1; i <= tiles; i++ {
		g.Tiles[i] = true
	}
	return g
}

func TestScoreValue(t *testing.T) {
	city := group(FeatureCity, 3)
	city.Pennants = 1
	assert.Equal(t, 8, ScoreValue(city, true))
	assert.Equal(t, 4, ScoreValue(city, false))

	road := group(FeatureRoad, 3)
	assert.Equal(t, 3, ScoreValue(road, true))
	assert.Equal(t, 3, ScoreValue(road, false))

	cl := group(FeatureCloister, 1)
	cl.AdjacentCount = 3
	assert.Equal(t, 9, ScoreValue(cl, true))
	assert.Equal(t, 4, ScoreValue(cl, false))

	field := group(FeatureField, 5)
	field.AdjCompletedCities["city|a"] = true
	field.AdjCompletedCities["city|b"] = true
	assert.Equal(t, 6, ScoreValue(field, false))
}

func TestEndValue(t *testing.T) {
	road := group(FeatureRoad, 2)
	assert.Equal(t, 2, EndValue(road))

	city := group(FeatureCity, 2)
	assert.Equal(t, 2, EndValue(city))
	city.Complete = true
	assert.Equal(t, 4, EndValue(city))

	cl := group(FeatureCloister, 1)
	cl.AdjacentCount, cl.Complete = 8, true
	assert.Equal(t, 9, EndValue(cl))
}

func TestWinners(t *testing.T) {
	tests := []struct {
		m1, m2 int
		want   []int
	}{
		{0, 0, nil},
		{1, 0, []int{1}},
		{0, 2, []int{2}},
		{1, 1, []int{1, 2}},
		{2, 1, []int{1}},
	}
	for _, tt := range tests {
		g := group(FeatureRoad, 1)
		g.MeeplesByPlayer[1], g.MeeplesByPlayer[2] = tt.m1, tt.m2
		assert.Equal(t, tt.want, Winners(g), "%d vs %d", tt.m1, tt.m2)
	}
}

func TestIncrementalIsIdempotent(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "E", 0, Meeple{Player: 1, FeatureLocalID: "city1"})
	put(b, 0, -1, 2, "E", 180)

	an, err := e.Analyze(b)
	require.NoError(t, err)
	scored := map[string]bool{}

	awards, closed := Incremental(an, scored)
	require.Len(t, awards, 1)
	assert.Equal(t, "city|1:city1/2:city1", awards[0].Key)
	assert.Equal(t, []int{1}, awards[0].Winners)
	assert.Equal(t, 4, awards[0].Points)
	assert.Equal(t, []string{"city|1:city1/2:city1"}, closed)

	for _, k := range closed {
		scored[k] = true
	}
	an, err = e.Analyze(b)
	require.NoError(t, err)
	awards, closed = Incremental(an, scored)
	assert.Empty(t, awards)
	assert.Empty(t, closed)
}

func TestIncrementalClosesUnoccupied(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "E", 0)
	put(b, 0, -1, 2, "E", 180)

	an, err := e.Analyze(b)
	require.NoError(t, err)
	awards, closed := Incremental(an, map[string]bool{})
	assert.Empty(t, awards)
	assert.Equal(t, []string{"city|1:city1/2:city1"}, closed)
}

func TestSettlement(t *testing.T) {
	e := baseEngine(t)
	b := Board{}
	put(b, 0, 0, 1, "E", 0, Meeple{Player: 1, FeatureLocalID: "city1"}, Meeple{Player: 2, FeatureLocalID: "field1"})
	put(b, 0, -1, 2, "E", 180)
	put(b, 1, 0, 3, "U", 90, Meeple{Player: 2, FeatureLocalID: "road1"})

	an, err := e.Analyze(b)
	require.NoError(t, err)

	scored := map[string]bool{"city|1:city1/2:city1": true}
	got := map[string]Award{}
	for _, a := range Settlement(an, scored) {
		got[a.Key] = a
	}

	assert.NotContains(t, got, "city|1:city1/2:city1")
	road := got["road|3:road1"]
	assert.Equal(t, 1, road.Points)
	assert.Equal(t, []int{2}, road.Winners)

	field := groupByNode(t, an, "1:field1")
	assert.Equal(t, 3, got[field.Key].Points)
	assert.Equal(t, []int{2}, got[field.Key].Winners)
}
