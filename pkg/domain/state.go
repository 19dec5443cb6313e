package domain

import "maps"

// Snapshot is the player state owned by a Store.
// Quality values are non-negative; a missing entry means 0.
type Snapshot struct {
	Location  string         `json:"location,omitempty"`
	Storylet  string         `json:"storylet,omitempty"`
	Qualities map[string]int `json:"qualities"`
}

// NewSnapshot returns an empty player state.
func NewSnapshot() Snapshot {
	return Snapshot{Qualities: make(map[string]int)}
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Qualities = make(map[string]int, len(s.Qualities))
	maps.Copy(c.Qualities, s.Qualities)
	return c
}

// Compact returns a copy without entries whose value is not positive.
func (s Snapshot) Compact() Snapshot {
	c := s
	c.Qualities = make(map[string]int, len(s.Qualities))
	for k, v := range s.Qualities {
		if v > 0 {
			c.Qualities[k] = v
		}
	}
	return c
}

// Effect is the before/after delta of a mutation that changed a value.
type Effect struct {
	Before int `json:"before"`
	After  int `json:"after"`
}
