package redis

import "time"

// OverrideDocument is the value stored under the overrides key.
type OverrideDocument struct {
	Document  map[string]any `json:"document"`
	UpdatedAt time.Time      `json:"updated_at"`
}
