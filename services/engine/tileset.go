package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// FeatureType is the terrain kind of a tile feature.
type FeatureType string

const (
	FeatureRoad     FeatureType = "road"
	FeatureCity     FeatureType = "city"
	FeatureField    FeatureType = "field"
	FeatureCloister FeatureType = "cloister"
)

// Meepleable reports whether a meeple may be put on a feature of this type.
func (t FeatureType) Meepleable() bool {
	switch t {
	case FeatureRoad, FeatureCity, FeatureField, FeatureCloister:
		return true
	}
	return false
}

// Edge is one side of a tile definition.
type Edge struct {
	Primary string   `json:"primary"`           // terrain compared against neighbours
	Feature string   `json:"feature,omitempty"` // local feature id covering the whole edge
	Halves  []string `json:"halves,omitempty"`  // field ids per half, when split by a road
}

// FeatureTags carries scoring metadata attached to a feature.
type FeatureTags struct {
	Pennants int `json:"pennants,omitempty"`
}

// Feature is a road, city, field or cloister region inside one tile.
type Feature struct {
	ID              string      `json:"id"`
	Type            FeatureType `json:"type"`
	Ports           []string    `json:"ports"`
	Tags            FeatureTags `json:"tags"`
	MeeplePlacement []float64   `json:"meeple_placement,omitempty"`
}

// TileDefinition is a base (unrotated) tile of the tile set.
type TileDefinition struct {
	ID              string          `json:"id"`
	Edges           map[string]Edge `json:"edges"`
	Features        []Feature       `json:"features"`
	IsStartTileType bool            `json:"is_start_tile_type,omitempty"`
}

// TileSetDocument is the on-disk tile-set format.
type TileSetDocument struct {
	Tiles      []TileDefinition `json:"tiles"`
	TileCounts map[string]int   `json:"tile_counts"`
}

// cityEdgeAdjacentFieldPorts lists, per city edge, the field half-ports that
// border a city occupying that edge.
var cityEdgeAdjacentFieldPorts = map[string][]string{
	"N": {"Nw", "Ne", "Wn", "En"},
	"E": {"En", "Es", "Ne", "Se"},
	"S": {"Sw", "Se", "Ws", "Es"},
	"W": {"Wn", "Ws", "Nw", "Sw"},
}

// TileSet is an immutable, validated tile set.
type TileSet struct {
	doc         TileSetDocument
	byID        map[string]TileDefinition
	counts      map[string]int
	startTileID string

	// tile id -> field local id -> adjacent city local ids
	fieldCityAdjacency map[string]map[string][]string
}

// LoadTileSetFile reads and validates a tile-set JSON file.
func LoadTileSetFile(path string) (*TileSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tile set: %w", err)
	}
	defer f.Close()
	return LoadTileSet(f)
}

// LoadTileSet decodes and validates a tile-set document.
func LoadTileSet(r io.Reader) (*TileSet, error) {
	var doc TileSetDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode tile set: %w", err)
	}
	return NewTileSet(doc)
}

// NewTileSet validates doc and precomputes the field/city adjacency table.
func NewTileSet(doc TileSetDocument) (*TileSet, error) {
	ts := &TileSet{
		doc:                doc,
		byID:               make(map[string]TileDefinition, len(doc.Tiles)),
		counts:             make(map[string]int, len(doc.TileCounts)),
		fieldCityAdjacency: make(map[string]map[string][]string, len(doc.Tiles)),
	}

	for _, tile := range doc.Tiles {
		if err := validateTile(tile); err != nil {
			return nil, err
		}
		if _, dup := ts.byID[tile.ID]; dup {
			return nil, fmt.Errorf("tile %q defined twice", tile.ID)
		}
		ts.byID[tile.ID] = tile
	}
	for id, n := range doc.TileCounts {
		if _, ok := ts.byID[id]; !ok {
			return nil, fmt.Errorf("tile_counts references unknown tile %q", id)
		}
		if n < 0 {
			return nil, fmt.Errorf("tile_counts for %q is negative", id)
		}
		ts.counts[id] = n
	}

	ts.startTileID = ts.pickStartTile()
	for id, tile := range ts.byID {
		ts.fieldCityAdjacency[id] = buildFieldCityAdjacency(tile)
	}
	return ts, nil
}

func validateTile(tile TileDefinition) error {
	if tile.ID == "" {
		return fmt.Errorf("tile without id")
	}
	for _, e := range edgeNames {
		edge, ok := tile.Edges[e]
		if !ok {
			return fmt.Errorf("tile %q: missing edge %s", tile.ID, e)
		}
		if edge.Primary == "" {
			return fmt.Errorf("tile %q: edge %s has no primary terrain", tile.ID, e)
		}
	}
	seen := make(map[string]bool, len(tile.Features))
	for _, f := range tile.Features {
		if f.ID == "" {
			return fmt.Errorf("tile %q: feature without id", tile.ID)
		}
		if seen[f.ID] {
			return fmt.Errorf("tile %q: duplicate feature id %q", tile.ID, f.ID)
		}
		seen[f.ID] = true
		if !f.Type.Meepleable() {
			return fmt.Errorf("tile %q: feature %q has unknown type %q", tile.ID, f.ID, f.Type)
		}
		for _, p := range f.Ports {
			if !validPort(p) {
				return fmt.Errorf("tile %q: feature %q has unknown port %q", tile.ID, f.ID, p)
			}
		}
	}
	return nil
}

// pickStartTile prefers a flagged start tile with supply, then the smallest
// id with supply.
func (ts *TileSet) pickStartTile() string {
	for _, tile := range ts.doc.Tiles {
		if tile.IsStartTileType && ts.counts[tile.ID] > 0 {
			return tile.ID
		}
	}
	for _, id := range ts.sortedIDs() {
		if ts.counts[id] > 0 {
			return id
		}
	}
	return ""
}

func buildFieldCityAdjacency(tile TileDefinition) map[string][]string {
	out := make(map[string][]string)
	for _, field := range tile.Features {
		if field.Type != FeatureField || len(field.Ports) == 0 {
			continue
		}
		fports := make(map[string]bool, len(field.Ports))
		for _, p := range field.Ports {
			fports[p] = true
		}
		var hits []string
		for _, city := range tile.Features {
			if city.Type != FeatureCity {
				continue
			}
			if cityTouchesField(city, fports) {
				hits = append(hits, city.ID)
			}
		}
		if len(hits) > 0 {
			out[field.ID] = hits
		}
	}
	return out
}

func cityTouchesField(city Feature, fports map[string]bool) bool {
	for _, edge := range city.Ports {
		for _, candidate := range cityEdgeAdjacentFieldPorts[edge] {
			if fports[candidate] {
				return true
			}
		}
	}
	return false
}

func (ts *TileSet) sortedIDs() []string {
	ids := make([]string, 0, len(ts.counts))
	for id := range ts.counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tile returns the base definition for id.
func (ts *TileSet) Tile(id string) (TileDefinition, bool) {
	t, ok := ts.byID[id]
	return t, ok
}

// Counts returns a fresh copy of the per-id supply.
func (ts *TileSet) Counts() map[string]int {
	out := make(map[string]int, len(ts.counts))
	for id, n := range ts.counts {
		out[id] = n
	}
	return out
}

// TotalTiles is the number of physical tiles in the supply.
func (ts *TileSet) TotalTiles() int {
	total := 0
	for _, n := range ts.counts {
		total += n
	}
	return total
}

// StartTileID is empty when no tile has supply.
func (ts *TileSet) StartTileID() string { return ts.startTileID }

// Document returns the document the set was built from.
func (ts *TileSet) Document() TileSetDocument { return ts.doc }

// AdjacentCities lists the city local ids bordering a field of a tile.
func (ts *TileSet) AdjacentCities(tileID, fieldID string) []string {
	return ts.fieldCityAdjacency[tileID][fieldID]
}
