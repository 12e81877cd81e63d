package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SetDetail is one set of an exercise: how many reps at which weight.
type SetDetail struct {
	Reps   int     `json:"reps" bson:"reps"`
	Weight float64 `json:"weight" bson:"weight"`
}

// SetDetails is an ordered per-set breakdown. When non-empty it is
// authoritative over the flat sets/reps/weight summary of its owner.
//
// Older clients send the list as a JSON-encoded string inside the payload,
// so UnmarshalJSON accepts both `[{"reps":10,"weight":60}]` and
// `"[{\"reps\":10,\"weight\":60}]"`. Marshaling always emits the array.
type SetDetails []SetDetail

func (sd *SetDetails) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*sd = nil
		return nil
	}

	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return fmt.Errorf("set details: %w", err)
		}
		if encoded == "" {
			*sd = nil
			return nil
		}
		data = []byte(encoded)
	}

	var list []SetDetail
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("set details: %w", err)
	}
	*sd = list
	return nil
}

// MaxWeight returns the heaviest weight across all sets, 0 for an empty list.
func (sd SetDetails) MaxWeight() float64 {
	var max float64
	for _, s := range sd {
		if s.Weight > max {
			max = s.Weight
		}
	}
	return max
}

// Summarize derives the flat summary kept for display and backward
// compatibility: set count, first set's reps and the max weight.
// ok is false when there are no set details, in which case the caller keeps
// its own flat values.
func (sd SetDetails) Summarize() (sets, reps int, weight float64, ok bool) {
	if len(sd) == 0 {
		return 0, 0, 0, false
	}
	return len(sd), sd[0].Reps, sd.MaxWeight(), true
}

// HasNegative reports whether any set carries negative reps or weight.
func (sd SetDetails) HasNegative() bool {
	for _, s := range sd {
		if s.Reps < 0 || s.Weight < 0 {
			return true
		}
	}
	return false
}
