package jsonmap

import (
	"encoding/json"
	"fmt"
)

// JSONMap represents a JSON object as a map.
type JSONMap map[string]interface{}

// FromJSON parses a JSON object into a JSONMap.
func FromJSON(data []byte) (JSONMap, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("JSON string is empty")
	}

	var m JSONMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON object: %w", err)
	}

	return m, nil
}

// ToJSON serializes the JSONMap to JSON.
func (m JSONMap) ToJSON() ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("JSONMap is nil")
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap: %w", err)
	}

	return data, nil
}

// Copy returns a deep copy of the JSONMap. The copy shares no nested
// structure with the original, so mutating one never affects the other.
func (m JSONMap) Copy() (JSONMap, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSONMap for copy: %w", err)
	}

	var out JSONMap
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSONMap copy: %w", err)
	}

	return out, nil
}

// WithoutField returns a shallow copy of the JSONMap with the given
// top-level field removed.
func (m JSONMap) WithoutField(field string) JSONMap {
	out := make(JSONMap, len(m))
	for k, v := range m {
		if k != field {
			out[k] = v
		}
	}

	return out
}

// StringField returns the named top-level field as a string.
func (m JSONMap) StringField(field string) (string, bool) {
	v, ok := m[field].(string)
	return v, ok
}

// ArrayField returns the named top-level field as an array, wrapping a
// single object value into a one-element array.
func (m JSONMap) ArrayField(field string) []interface{} {
	switch v := m[field].(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	default:
		return []interface{}{v}
	}
}
