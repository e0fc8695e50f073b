// internal/design/tree.go
package design

import (
	"encoding/json"
	"fmt"
)

// ToTree converts d into a generic JSON tree (maps, slices, float64,
// strings, bools). The tree shares no memory with d.
func (d Design) ToTree() (map[string]any, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode design: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("decode design tree: %w", err)
	}
	return tree, nil
}

// FromTree validates a generic JSON tree and converts it back into a Design.
func FromTree(tree any) (Design, error) {
	raw, err := json.Marshal(tree)
	if err != nil {
		return Design{}, fmt.Errorf("encode design tree: %w", err)
	}
	return Parse(raw)
}
