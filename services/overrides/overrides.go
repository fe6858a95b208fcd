// Package overrides stores the client's visual override document. The
// document is opaque JSON apart from a small normalized skeleton.
package overrides

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Document is a decoded override document.
type Document map[string]any

// Store reads and writes the override document.
type Store interface {
	Load(ctx context.Context) (Document, error)
	Save(ctx context.Context, doc Document) (Document, error)
}

// Default is the document served when nothing has been saved yet.
func Default() Document {
	return Document{
		"schema": map[string]any{"coords": "normalized_0_1", "fillRule": "evenodd"},
		"tiles":  map[string]any{},
	}
}

// Normalize fills in schema defaults and forces tiles, and each tile's
// features, to be objects. doc is modified in place and returned.
func Normalize(doc Document) Document {
	if doc == nil {
		doc = Default()
	}
	schema, ok := doc["schema"].(map[string]any)
	if !ok {
		schema = map[string]any{}
	}
	if _, ok := schema["coords"]; !ok {
		schema["coords"] = "normalized_0_1"
	}
	if _, ok := schema["fillRule"]; !ok {
		schema["fillRule"] = "evenodd"
	}
	doc["schema"] = schema

	tiles, ok := doc["tiles"].(map[string]any)
	if !ok {
		tiles = map[string]any{}
	}
	for id, entry := range tiles {
		tile, ok := entry.(map[string]any)
		if !ok {
			tiles[id] = map[string]any{"features": map[string]any{}}
			continue
		}
		if _, ok := tile["features"].(map[string]any); !ok {
			tile["features"] = map[string]any{}
		}
	}
	doc["tiles"] = tiles
	return doc
}

// Encode renders doc with two-space indentation and a trailing newline.
func Encode(doc Document) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode overrides: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses raw JSON into a normalized document. A non-object payload
// is rejected.
func Decode(raw []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode overrides: %w", err)
	}
	if doc == nil {
		return nil, errors.New("decode overrides: payload must be a JSON object")
	}
	return Normalize(doc), nil
}

// FileStore keeps the document in a single JSON file.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

func (s *FileStore) Load(_ context.Context) (Document, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	return Decode(raw)
}

// Save replaces the file atomically through a temp file in the same
// directory.
func (s *FileStore) Save(_ context.Context, doc Document) (Document, error) {
	doc = Normalize(doc)
	b, err := Encode(doc)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".overrides-*.json")
	if err != nil {
		return nil, fmt.Errorf("create temp overrides: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write overrides: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("write overrides: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return nil, fmt.Errorf("replace overrides: %w", err)
	}
	return doc, nil
}
