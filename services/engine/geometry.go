package engine

import (
	"errors"
	"fmt"
)

// Direction is a cardinal edge of a tile.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var edgeNames = [4]string{"N", "E", "S", "W"}

func (d Direction) String() string { return edgeNames[d] }

// Opposite returns the edge facing d on the neighbouring tile.
func (d Direction) Opposite() Direction { return (d + 2) % 4 }

// Delta is the board offset of the neighbour across d. y grows southward.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

func directionOf(port string) (Direction, bool) {
	for i, n := range edgeNames {
		if n == port {
			return Direction(i), true
		}
	}
	return 0, false
}

// portRotCW advances a half-edge port one quarter turn clockwise.
var portRotCW = map[string]string{
	"Nw": "En",
	"Ne": "Es",
	"En": "Se",
	"Es": "Sw",
	"Se": "Ws",
	"Sw": "Wn",
	"Ws": "Nw",
	"Wn": "Ne",
}

func validPort(p string) bool {
	if _, ok := portRotCW[p]; ok {
		return true
	}
	_, ok := directionOf(p)
	return ok
}

var ErrBadRotation = errors.New("rotation must be one of 0, 90, 180, 270")

// Rotations lists the legal rotations in degrees.
var Rotations = [4]int{0, 90, 180, 270}

// NormalizeRotation folds any degree value into [0, 360).
func NormalizeRotation(deg int) int {
	return ((deg % 360) + 360) % 360
}

// ValidRotation reports whether deg is one of 0, 90, 180, 270.
func ValidRotation(deg int) bool {
	return deg == 0 || deg == 90 || deg == 180 || deg == 270
}

// RotatePort turns a port label clockwise by rotDeg. rotDeg is normalized,
// so negative values rotate counter-clockwise.
func RotatePort(port string, rotDeg int) (string, error) {
	steps := NormalizeRotation(rotDeg) / 90
	q := port
	for i := 0; i < steps; i++ {
		if next, ok := portRotCW[q]; ok {
			q = next
			continue
		}
		d, ok := directionOf(q)
		if !ok {
			return "", fmt.Errorf("unknown port %q", q)
		}
		q = edgeNames[(d+1)%4]
	}
	return q, nil
}

// OrientedTile is a tile definition turned to a rotation.
type OrientedTile struct {
	ID       string
	Rotation int
	Edges    [4]Edge
	Features []Feature
}

// Feature finds a feature of the oriented tile by local id.
func (t OrientedTile) Feature(id string) (Feature, bool) {
	for _, f := range t.Features {
		if f.ID == id {
			return f, true
		}
	}
	return Feature{}, false
}

// Rotate orients def by rotDeg degrees clockwise.
func Rotate(def TileDefinition, rotDeg int) (OrientedTile, error) {
	if !ValidRotation(rotDeg) {
		return OrientedTile{}, ErrBadRotation
	}
	out := OrientedTile{ID: def.ID, Rotation: rotDeg}
	inv := (360 - rotDeg) % 360

	for i, name := range edgeNames {
		src, err := RotatePort(name, inv)
		if err != nil {
			return OrientedTile{}, err
		}
		be := def.Edges[src]
		out.Edges[i] = Edge{
			Primary: be.Primary,
			Feature: be.Feature,
			Halves:  append([]string(nil), be.Halves...),
		}
	}

	out.Features = make([]Feature, 0, len(def.Features))
	for _, f := range def.Features {
		rf := f
		rf.Ports = make([]string, 0, len(f.Ports))
		for _, p := range f.Ports {
			rp, err := RotatePort(p, rotDeg)
			if err != nil {
				return OrientedTile{}, err
			}
			rf.Ports = append(rf.Ports, rp)
		}
		if f.MeeplePlacement != nil {
			rf.MeeplePlacement = append([]float64(nil), f.MeeplePlacement...)
		}
		out.Features = append(out.Features, rf)
	}
	return out, nil
}

// Engine answers rules questions against one tile set. Oriented tiles are
// computed once for every (tile, rotation) pair.
type Engine struct {
	tiles    *TileSet
	oriented map[string][4]OrientedTile
}

// New builds an Engine and pre-rotates every tile of ts.
func New(ts *TileSet) (*Engine, error) {
	e := &Engine{tiles: ts, oriented: make(map[string][4]OrientedTile, len(ts.byID))}
	for id, def := range ts.byID {
		var rots [4]OrientedTile
		for i, deg := range Rotations {
			ot, err := Rotate(def, deg)
			if err != nil {
				return nil, fmt.Errorf("tile %q: %w", id, err)
			}
			rots[i] = ot
		}
		e.oriented[id] = rots
	}
	return e, nil
}

// TileSet returns the tile set the engine was built with.
func (e *Engine) TileSet() *TileSet { return e.tiles }

// Oriented returns tileID turned to rotDeg.
func (e *Engine) Oriented(tileID string, rotDeg int) (OrientedTile, error) {
	if !ValidRotation(rotDeg) {
		return OrientedTile{}, ErrBadRotation
	}
	rots, ok := e.oriented[tileID]
	if !ok {
		return OrientedTile{}, fmt.Errorf("unknown tile %q", tileID)
	}
	return rots[rotDeg/90], nil
}
