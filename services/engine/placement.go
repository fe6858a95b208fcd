package engine

import (
	"fmt"
	"sort"

	game_constants "Meeple/constants/game"
)

// Coord is a board cell.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) String() string { return fmt.Sprintf("%d,%d", c.X, c.Y) }

// Step returns the neighbouring cell across d.
func (c Coord) Step(d Direction) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// InBounds reports whether c lies inside the bounded board region.
func InBounds(c Coord) bool {
	return abs(c.X) <= game_constants.BoardHalfSpan && abs(c.Y) <= game_constants.BoardHalfSpan
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Meeple is a claim on a feature of the tile it sits on.
type Meeple struct {
	Player         int    `json:"player"`
	FeatureLocalID string `json:"featureLocalId"`
}

// TileInstance is a placed tile.
type TileInstance struct {
	InstID  int      `json:"instId"`
	TileID  string   `json:"tileId"`
	RotDeg  int      `json:"rotDeg"`
	Meeples []Meeple `json:"meeples"`
}

// Board maps occupied cells to their tile.
type Board map[Coord]*TileInstance

// BoardCell is one entry of a serialized board.
type BoardCell struct {
	Coord    Coord
	Instance *TileInstance
}

// Cells lists the board row-major: by y, then x.
func (b Board) Cells() []BoardCell {
	out := make([]BoardCell, 0, len(b))
	for c, inst := range b {
		out = append(out, BoardCell{Coord: c, Instance: inst})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Coord.Y != out[j].Coord.Y {
			return out[i].Coord.Y < out[j].Coord.Y
		}
		return out[i].Coord.X < out[j].Coord.X
	})
	return out
}

// Clone deep-copies the board.
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for c, inst := range b {
		cp := *inst
		if inst.Meeples != nil {
			cp.Meeples = make([]Meeple, len(inst.Meeples))
			copy(cp.Meeples, inst.Meeples)
		}
		out[c] = &cp
	}
	return out
}

// CanPlace decides whether tileID at rotDeg may go on c. The reason is
// human readable and names the offending edge pair on a mismatch.
func (e *Engine) CanPlace(b Board, tileID string, rotDeg int, c Coord) (bool, string) {
	if !InBounds(c) {
		return false, "Out of board bounds."
	}
	if _, taken := b[c]; taken {
		return false, "Cell occupied."
	}
	tile, err := e.Oriented(tileID, rotDeg)
	if err != nil {
		if err == ErrBadRotation {
			return false, "Rotation must be one of 0, 90, 180, 270."
		}
		return false, fmt.Sprintf("Unknown tile %s.", tileID)
	}

	touches := false
	for d := North; d <= West; d++ {
		n, ok := b[c.Step(d)]
		if !ok {
			continue
		}
		touches = true
		neighbour, err := e.Oriented(n.TileID, n.RotDeg)
		if err != nil {
			return false, fmt.Sprintf("Neighbour %s is not a known tile.", c.Step(d))
		}
		a := tile.Edges[d].Primary
		opp := d.Opposite()
		nb := neighbour.Edges[opp].Primary
		if a != nb {
			return false, fmt.Sprintf("Edge mismatch %s: %s vs neighbor %s: %s", d, a, opp, nb)
		}
	}

	if len(b) > 0 && !touches {
		return false, "Tile must touch at least one placed tile."
	}
	return true, "OK"
}

// BuildFrontier returns the empty in-bounds cells next to an occupied cell,
// row-major, or the origin when the board is empty.
func (e *Engine) BuildFrontier(b Board) []Coord {
	if len(b) == 0 {
		return []Coord{{X: 0, Y: 0}}
	}
	seen := make(map[Coord]bool)
	var out []Coord
	for c := range b {
		for d := North; d <= West; d++ {
			n := c.Step(d)
			if !InBounds(n) || seen[n] {
				continue
			}
			if _, taken := b[n]; taken {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// HasAnyPlacement reports whether tileID fits somewhere on the frontier in
// some rotation.
func (e *Engine) HasAnyPlacement(b Board, tileID string) bool {
	for _, c := range e.BuildFrontier(b) {
		for _, rot := range Rotations {
			if ok, _ := e.CanPlace(b, tileID, rot, c); ok {
				return true
			}
		}
	}
	return false
}
