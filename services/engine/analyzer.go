package engine

import (
	"fmt"
	"sort"
	"strings"
)

// NodeKey identifies one feature of one placed tile.
func NodeKey(instID int, localID string) string {
	return fmt.Sprintf("%d:%s", instID, localID)
}

// NodeMeta describes a union-find element.
type NodeMeta struct {
	Type     FeatureType
	Ports    []string
	Pennants int
	InstID   int
	Cell     Coord
	LocalID  string
	TileID   string
}

// Group is a maximal set of features connected across tile boundaries.
type Group struct {
	Root               string
	Key                string
	Type               FeatureType
	Nodes              []string // sorted
	Tiles              map[int]bool
	MeeplesByPlayer    map[int]int
	Pennants           int
	OpenPorts          []string // "x,y:E", sorted
	Complete           bool
	AdjacentCount      int             // cloisters: occupied surrounding cells
	AdjCompletedCities map[string]bool // fields: keys of completed city groups touched
}

// TileCount is the number of distinct tiles contributing to the group.
func (g *Group) TileCount() int { return len(g.Tiles) }

// MeepleCount is the total number of meeples on the group.
func (g *Group) MeepleCount() int {
	total := 0
	for _, n := range g.MeeplesByPlayer {
		total += n
	}
	return total
}

// Analysis is the result of one full connectivity pass. It is owned by the
// caller and never refers back into the board.
type Analysis struct {
	UF     *UnionFind
	Nodes  map[string]NodeMeta
	Groups map[string]*Group // keyed by union-find root
}

// GroupOf resolves the group a node belongs to.
func (a *Analysis) GroupOf(nodeKey string) (*Group, bool) {
	if _, ok := a.Nodes[nodeKey]; !ok {
		return nil, false
	}
	g, ok := a.Groups[a.UF.Find(nodeKey)]
	return g, ok
}

// SortedGroups lists groups ordered by key.
func (a *Analysis) SortedGroups() []*Group {
	out := make([]*Group, 0, len(a.Groups))
	for _, g := range a.Groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// portLookup maps directional port labels to feature local ids on one tile.
type portLookup struct {
	road  map[string]string
	city  map[string]string
	field map[string]string
}

// half-edge pairs across a shared edge: east neighbour, south neighbour
var (
	eastHalfPairs  = [2][2]string{{"En", "Wn"}, {"Es", "Ws"}}
	southHalfPairs = [2][2]string{{"Sw", "Nw"}, {"Se", "Ne"}}
)

// Analyze partitions every feature on b into connected groups. It reads b
// only and builds all state from scratch.
func (e *Engine) Analyze(b Board) (*Analysis, error) {
	an := &Analysis{UF: NewUnionFind(), Nodes: make(map[string]NodeMeta), Groups: make(map[string]*Group)}
	lookups := make(map[int]portLookup, len(b))
	cells := b.Cells()

	for _, cell := range cells {
		inst := cell.Instance
		tile, err := e.Oriented(inst.TileID, inst.RotDeg)
		if err != nil {
			return nil, fmt.Errorf("analyze %s: %w", cell.Coord, err)
		}
		look := portLookup{road: map[string]string{}, city: map[string]string{}, field: map[string]string{}}
		for _, f := range tile.Features {
			key := NodeKey(inst.InstID, f.ID)
			an.UF.Add(key)
			an.Nodes[key] = NodeMeta{
				Type:     f.Type,
				Ports:    f.Ports,
				Pennants: f.Tags.Pennants,
				InstID:   inst.InstID,
				Cell:     cell.Coord,
				LocalID:  f.ID,
				TileID:   inst.TileID,
			}
			var target map[string]string
			switch f.Type {
			case FeatureRoad:
				target = look.road
			case FeatureCity:
				target = look.city
			case FeatureField:
				target = look.field
			}
			for _, p := range f.Ports {
				if target != nil {
					target[p] = f.ID
				}
			}
		}
		lookups[inst.InstID] = look
	}

	for _, cell := range cells {
		a := cell.Instance
		lookA := lookups[a.InstID]
		for _, side := range [2]struct {
			dir    Direction
			halves [2][2]string
		}{{East, eastHalfPairs}, {South, southHalfPairs}} {
			bInst, ok := b[cell.Coord.Step(side.dir)]
			if !ok {
				continue
			}
			lookB := lookups[bInst.InstID]
			edgeA, edgeB := side.dir.String(), side.dir.Opposite().String()

			if fa, ok := lookA.road[edgeA]; ok {
				if fb, ok := lookB.road[edgeB]; ok {
					an.UF.Union(NodeKey(a.InstID, fa), NodeKey(bInst.InstID, fb))
				}
			}
			if fa, ok := lookA.city[edgeA]; ok {
				if fb, ok := lookB.city[edgeB]; ok {
					an.UF.Union(NodeKey(a.InstID, fa), NodeKey(bInst.InstID, fb))
				}
			}
			for _, pair := range side.halves {
				fa, okA := lookA.field[pair[0]]
				fb, okB := lookB.field[pair[1]]
				if okA && okB {
					an.UF.Union(NodeKey(a.InstID, fa), NodeKey(bInst.InstID, fb))
				}
			}
		}
	}

	for key, meta := range an.Nodes {
		root := an.UF.Find(key)
		g, ok := an.Groups[root]
		if !ok {
			g = &Group{
				Root:               root,
				Type:               meta.Type,
				Tiles:              map[int]bool{},
				MeeplesByPlayer:    map[int]int{1: 0, 2: 0},
				AdjCompletedCities: map[string]bool{},
			}
			an.Groups[root] = g
		}
		g.Nodes = append(g.Nodes, key)
		g.Tiles[meta.InstID] = true
		if meta.Type == FeatureCity {
			g.Pennants += meta.Pennants
		}
	}

	for _, cell := range cells {
		for _, m := range cell.Instance.Meeples {
			g, ok := an.GroupOf(NodeKey(cell.Instance.InstID, m.FeatureLocalID))
			if !ok {
				continue
			}
			if m.Player == 1 || m.Player == 2 {
				g.MeeplesByPlayer[m.Player]++
			}
		}
	}

	for _, g := range an.Groups {
		sort.Strings(g.Nodes)
		g.Key = string(g.Type) + "|" + strings.Join(g.Nodes, "/")
	}

	for _, g := range an.Groups {
		switch g.Type {
		case FeatureRoad, FeatureCity:
			e.markOpenPorts(b, an, lookups, g)
		case FeatureCloister:
			markCloister(b, an, g)
		}
	}

	for _, g := range an.Groups {
		if g.Type != FeatureField {
			continue
		}
		for _, key := range g.Nodes {
			meta := an.Nodes[key]
			for _, cityLocal := range e.tiles.AdjacentCities(meta.TileID, meta.LocalID) {
				cg, ok := an.GroupOf(NodeKey(meta.InstID, cityLocal))
				if ok && cg.Type == FeatureCity && cg.Complete {
					g.AdjCompletedCities[cg.Key] = true
				}
			}
		}
	}
	return an, nil
}

// markOpenPorts counts ports that lead off the board or into a neighbour
// lacking the same feature kind on the opposing edge.
func (e *Engine) markOpenPorts(b Board, an *Analysis, lookups map[int]portLookup, g *Group) {
	open := map[string]bool{}
	for _, key := range g.Nodes {
		meta := an.Nodes[key]
		for _, port := range meta.Ports {
			d, ok := directionOf(port)
			if !ok {
				continue
			}
			label := meta.Cell.String() + ":" + port
			n, ok := b[meta.Cell.Step(d)]
			if !ok {
				open[label] = true
				continue
			}
			look := lookups[n.InstID]
			opp := d.Opposite().String()
			table := look.road
			if g.Type == FeatureCity {
				table = look.city
			}
			if _, ok := table[opp]; !ok {
				open[label] = true
			}
		}
	}
	g.OpenPorts = make([]string, 0, len(open))
	for p := range open {
		g.OpenPorts = append(g.OpenPorts, p)
	}
	sort.Strings(g.OpenPorts)
	g.Complete = len(g.OpenPorts) == 0
}

func markCloister(b Board, an *Analysis, g *Group) {
	if len(g.Nodes) == 0 {
		return
	}
	c := an.Nodes[g.Nodes[0]].Cell
	count := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if _, ok := b[Coord{X: c.X + dx, Y: c.Y + dy}]; ok {
				count++
			}
		}
	}
	g.AdjacentCount = count
	g.Complete = count == 8
}
