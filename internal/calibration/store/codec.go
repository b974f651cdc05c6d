package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/louisbranch/llzcal/internal/calibration/grid"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
)

// StateVersion tags the serialized layout.
const StateVersion = 1

type stageSets struct {
	Present   json.RawMessage `json:"present"`
	Reference json.RawMessage `json:"reference"`
}

type encodedStageSets struct {
	Present   reading.Set `json:"present"`
	Reference reading.Set `json:"reference"`
}

type encodedState struct {
	Version int  `json:"version"`
	Meta    Meta `json:"meta"`
	Values  struct {
		TX1 encodedStageSets `json:"tx1"`
		TX2 encodedStageSets `json:"tx2"`
	} `json:"values"`
	Current Cursor `json:"current"`
}

type decodedState struct {
	Version int   `json:"version"`
	Meta    *Meta `json:"meta"`
	Values  struct {
		TX1 *stageSets `json:"tx1"`
		TX2 *stageSets `json:"tx2"`
	} `json:"values"`
	Current *Cursor `json:"current"`
}

// MarshalJSON serializes the full store. Output is deterministic for equal
// stores.
func (s *Store) MarshalJSON() ([]byte, error) {
	var state encodedState
	state.Version = StateVersion
	state.Meta = s.meta
	state.Current = s.cursor
	state.Values.TX1 = encodedStageSets{Present: s.sets[0][0], Reference: s.sets[0][1]}
	state.Values.TX2 = encodedStageSets{Present: s.sets[1][0], Reference: s.sets[1][1]}
	return json.Marshal(state)
}

// Load rebuilds a store from MarshalJSON output. Any set that is missing, is
// not grid sized or holds a value the sign policy could not have produced is
// reset to all-absent and reported in the returned slots. An invalid cursor
// loads as DefaultCursor. Empty input yields a fresh store.
func Load(data []byte) (*Store, []Slot, error) {
	s := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil, nil
	}

	var state decodedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, nil, fmt.Errorf("decode calibration state: %w", err)
	}
	if state.Version > StateVersion {
		return nil, nil, fmt.Errorf("decode calibration state: unsupported version %d", state.Version)
	}
	if state.Meta != nil {
		s.meta = state.Meta.Normalize()
	}
	if state.Current != nil && state.Current.Validate() == nil {
		s.cursor = *state.Current
	}

	var reset []Slot
	for i, sets := range []*stageSets{state.Values.TX1, state.Values.TX2} {
		for j := range reading.Stages() {
			slot := Slot{Transmitter: reading.Transmitters()[i], Stage: reading.Stages()[j]}
			var raw json.RawMessage
			if sets != nil {
				raw = sets.Present
				if j == 1 {
					raw = sets.Reference
				}
			}
			set, ok := decodeSet(raw)
			if !ok {
				reset = append(reset, slot)
				continue
			}
			s.sets[i][j] = set
		}
	}
	return s, reset, nil
}

func decodeSet(raw json.RawMessage) (reading.Set, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var entries []reading.Raw
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	if len(entries) != grid.Len {
		return nil, false
	}
	set := reading.NewSet()
	for i, entry := range entries {
		angle, _ := grid.At(i)
		r, err := reading.FromRaw(angle, entry)
		if err != nil {
			return nil, false
		}
		set[i] = r
	}
	return set, true
}
