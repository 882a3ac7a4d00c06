package db

import "encoding/json"

// PlanCounts reads the number of blocks and warnings from a stored plan
// payload. A payload that does not decode counts as empty.
func PlanCounts(data string) (blocks, warnings int) {
	var shape struct {
		Blocks   []json.RawMessage `json:"blocks"`
		Warnings []json.RawMessage `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(data), &shape); err != nil {
		return 0, 0
	}
	return len(shape.Blocks), len(shape.Warnings)
}
