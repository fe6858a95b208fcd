package engine

// ScoreValue is the point value of g, counting it as complete or not.
func ScoreValue(g *Group, complete bool) int {
	switch g.Type {
	case FeatureRoad:
		return g.TileCount()
	case FeatureCity:
		if complete {
			return 2*g.TileCount() + 2*g.Pennants
		}
		return g.TileCount() + g.Pennants
	case FeatureCloister:
		if complete {
			return 9
		}
		return 1 + g.AdjacentCount
	case FeatureField:
		return 3 * len(g.AdjCompletedCities)
	}
	return 0
}

// EndValue is the value of g when the match ends. Roads count as complete,
// everything else at its true state.
func EndValue(g *Group) int {
	switch g.Type {
	case FeatureRoad:
		return ScoreValue(g, true)
	case FeatureCloister:
		return ScoreValue(g, false)
	}
	return ScoreValue(g, g.Complete)
}

// Winners lists the players holding the most meeples on g. A tie yields
// both players; no meeples yields none.
func Winners(g *Group) []int {
	m1, m2 := g.MeeplesByPlayer[1], g.MeeplesByPlayer[2]
	top := max(m1, m2)
	if top <= 0 {
		return nil
	}
	var out []int
	if m1 == top {
		out = append(out, 1)
	}
	if m2 == top {
		out = append(out, 2)
	}
	return out
}

// Award is the points one group pays to each of its winners.
type Award struct {
	Key     string
	Type    FeatureType
	Winners []int
	Points  int
}

// Incremental scores every non-field group that is complete and absent
// from scored. Closed records the keys of all such groups, occupied or
// not, and must be merged into scored by the caller.
func Incremental(an *Analysis, scored map[string]bool) (awards []Award, closed []string) {
	for _, g := range an.SortedGroups() {
		if g.Type == FeatureField || !g.Complete || scored[g.Key] {
			continue
		}
		closed = append(closed, g.Key)
		winners := Winners(g)
		if len(winners) == 0 {
			continue
		}
		awards = append(awards, Award{Key: g.Key, Type: g.Type, Winners: winners, Points: ScoreValue(g, true)})
	}
	return awards, closed
}

// Settlement scores every occupied group at its end value, skipping
// completed non-field groups already present in scored.
func Settlement(an *Analysis, scored map[string]bool) []Award {
	var awards []Award
	for _, g := range an.SortedGroups() {
		winners := Winners(g)
		if len(winners) == 0 {
			continue
		}
		if g.Type != FeatureField && g.Complete && scored[g.Key] {
			continue
		}
		pts := EndValue(g)
		if pts <= 0 {
			continue
		}
		awards = append(awards, Award{Key: g.Key, Type: g.Type, Winners: winners, Points: pts})
	}
	return awards
}
