package domain

import (
	"time"
)

// BodyMeasurement is one entry of a user's body measurement log.
// Every numeric field is optional; users only record what they track.
type BodyMeasurement struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	MeasuredAt time.Time `json:"measuredAt"`

	Weight     *float64 `json:"weight,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	Chest      *float64 `json:"chest,omitempty"`
	Waist      *float64 `json:"waist,omitempty"`
	Hips       *float64 `json:"hips,omitempty"`
	BicepLeft  *float64 `json:"bicepLeft,omitempty"`
	BicepRight *float64 `json:"bicepRight,omitempty"`
	ThighLeft  *float64 `json:"thighLeft,omitempty"`
	ThighRight *float64 `json:"thighRight,omitempty"`
	CalfLeft   *float64 `json:"calfLeft,omitempty"`
	CalfRight  *float64 `json:"calfRight,omitempty"`
	Neck       *float64 `json:"neck,omitempty"`
	BodyFat    *float64 `json:"bodyFat,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MeasurementField pairs a JSON field name with its value on one entry.
type MeasurementField struct {
	Name  string
	Value *float64
}

// Fields lists the numeric fields in their canonical display order.
func (m *BodyMeasurement) Fields() []MeasurementField {
	return []MeasurementField{
		{"weight", m.Weight},
		{"height", m.Height},
		{"chest", m.Chest},
		{"waist", m.Waist},
		{"hips", m.Hips},
		{"bicepLeft", m.BicepLeft},
		{"bicepRight", m.BicepRight},
		{"thighLeft", m.ThighLeft},
		{"thighRight", m.ThighRight},
		{"calfLeft", m.CalfLeft},
		{"calfRight", m.CalfRight},
		{"neck", m.Neck},
		{"bodyFat", m.BodyFat},
	}
}

// HasValues reports whether at least one numeric field is set.
func (m *BodyMeasurement) HasValues() bool {
	for _, f := range m.Fields() {
		if f.Value != nil {
			return true
		}
	}
	return false
}

// TrackedFields returns the union of fields recorded across entries,
// in canonical order.
func TrackedFields(entries []BodyMeasurement) []string {
	seen := make(map[string]bool)
	for i := range entries {
		for _, f := range entries[i].Fields() {
			if f.Value != nil {
				seen[f.Name] = true
			}
		}
	}

	var empty BodyMeasurement
	tracked := make([]string, 0, len(seen))
	for _, f := range empty.Fields() {
		if seen[f.Name] {
			tracked = append(tracked, f.Name)
		}
	}
	return tracked
}
