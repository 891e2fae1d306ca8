package service

import (
	"encoding/json"
	"fmt"
)

// immutableFields are never overwritten by an update payload.
var immutableFields = map[string]struct{}{
	"id":        {},
	"createdAt": {},
}

// shallowMerge replaces the JSON fields of rec named in updates and leaves
// every other field untouched.
func shallowMerge[T any](rec T, updates map[string]json.RawMessage) (T, error) {
	if len(updates) == 0 {
		return rec, nil
	}
	bs, err := json.Marshal(rec)
	if err != nil {
		return rec, fmt.Errorf("encode record: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(bs, &fields); err != nil {
		return rec, fmt.Errorf("decode record: %w", err)
	}
	for key, value := range updates {
		if _, skip := immutableFields[key]; skip {
			continue
		}
		fields[key] = value
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return rec, fmt.Errorf("encode merged record: %w", err)
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return out, nil
}
