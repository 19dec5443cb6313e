package persistence

import (
	"encoding/json"
	"math"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Decode rebuilds a snapshot from slot data, keeping whatever is well formed.
// Malformed documents yield an empty snapshot; malformed fields are skipped
// individually. Only positive whole-number qualities survive.
func Decode(data []byte) domain.Snapshot {
	snapshot := domain.NewSnapshot()

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return snapshot
	}

	var location string
	if err := mapstructure.Decode(raw["location"], &location); err == nil {
		snapshot.Location = location
	}

	var storylet string
	if err := mapstructure.Decode(raw["storylet"], &storylet); err == nil {
		snapshot.Storylet = storylet
	}

	var qualities map[string]any
	if err := mapstructure.Decode(raw["qualities"], &qualities); err != nil {
		return snapshot
	}
	for id, v := range qualities {
		var f float64
		if err := mapstructure.Decode(v, &f); err != nil {
			continue
		}
		if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
			continue
		}
		snapshot.Qualities[id] = int(f)
	}
	return snapshot
}
