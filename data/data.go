// Package data bundles the default tile set into the binary.
package data

import (
	"bytes"
	_ "embed"
	"io"
)

//go:embed base_tileset.json
var baseTileSet []byte

// BaseTileSet returns a reader over the embedded base tile-set document.
func BaseTileSet() io.Reader { return bytes.NewReader(baseTileSet) }
