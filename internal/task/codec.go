package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Encode serializes the full collection as a JSON array. A nil collection encodes as [].
func Encode(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// Decode parses a persisted collection. Records that break the collection
// invariants are repaired or dropped; the number dropped is returned alongside.
func Decode(data []byte) ([]Task, int, error) {
	var raw []Task
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}

	out := make([]Task, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	dropped := 0
	for _, t := range raw {
		if strings.TrimSpace(t.Text) == "" {
			dropped++
			continue
		}
		if _, dup := seen[t.ID]; dup {
			dropped++
			continue
		}
		seen[t.ID] = struct{}{}

		if p, err := ParsePriority(string(t.Priority)); err == nil {
			t.Priority = p
		} else {
			t.Priority = PriorityMedium
		}
		out = append(out, t)
	}
	return out, dropped, nil
}
