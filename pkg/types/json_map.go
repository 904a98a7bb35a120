package types

import (
	"encoding/json"
	"math"
	"strconv"
)

// JSONMap carries a client-supplied mapping verbatim. Unrecognized keys
// survive a load/store round trip untouched.
type JSONMap map[string]any

// String returns the value under key when it is a string, or fallback.
func (m JSONMap) String(key, fallback string) string {
	if m == nil {
		return fallback
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return fallback
}

// Int returns the value under key coerced to an int. JSON numbers decode as
// float64; numeric strings are accepted too since HTML forms send them.
func (m JSONMap) Int(key string, fallback int) int {
	if m == nil {
		return fallback
	}
	switch v := m[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback
		}
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// Clone returns a shallow copy so callers can mutate without aliasing.
func (m JSONMap) Clone() JSONMap {
	if m == nil {
		return nil
	}
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
