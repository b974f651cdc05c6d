package store

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/louisbranch/llzcal/internal/calibration/grid"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
)

func populated(t *testing.T) *Store {
	t.Helper()
	s := New()
	if err := s.SetMeta(Meta{Station: "VOBL", Frequency: "110.3", ReferenceDate: "01-02-2025", PresentDate: "15-10-2026"}); err != nil {
		t.Fatalf("set meta: %v", err)
	}
	record(t, s, reading.TX1, reading.StagePresent, -10, reading.Input{DDM: "5", SDM: "3", RF: "2"})
	record(t, s, reading.TX1, reading.StagePresent, 0, reading.Input{DDM: "1.25", ZeroSign: reading.SignMinus})
	record(t, s, reading.TX2, reading.StageReference, 35, reading.Input{RF: "40"})
	if err := s.SetCursor(Cursor{Stage: reading.StageReference, Transmitter: reading.TX2, Direction: grid.PosToNeg, Position: 4}); err != nil {
		t.Fatalf("set cursor: %v", err)
	}
	return s
}

func TestMarshalLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s := populated(t)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	loaded, reset, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(reset) != 0 {
		t.Fatalf("reset slots = %v, want none", reset)
	}
	for _, slot := range Slots() {
		want, _ := s.Snapshot(slot.Transmitter, slot.Stage)
		got, _ := loaded.Snapshot(slot.Transmitter, slot.Stage)
		for i := range want {
			if want[i] != got[i] {
				t.Fatalf("%s[%d] = %+v, want %+v", slot, i, got[i].Raw(), want[i].Raw())
			}
		}
	}
	if loaded.Meta() != s.Meta() {
		t.Fatalf("meta = %+v, want %+v", loaded.Meta(), s.Meta())
	}
	if loaded.Cursor() != s.Cursor() {
		t.Fatalf("cursor = %+v, want %+v", loaded.Cursor(), s.Cursor())
	}

	again, err := json.Marshal(loaded)
	if err != nil {
		t.Fatalf("marshal reloaded: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatalf("serialization is not deterministic:\n%s\n%s", data, again)
	}
}

func TestLoadResetsWrongLengthSet(t *testing.T) {
	t.Parallel()

	s := populated(t)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tx1 := doc["values"].(map[string]any)["tx1"].(map[string]any)
	present := tx1["present"].([]any)
	tx1["present"] = present[:grid.Len-1]
	data, err = json.Marshal(doc)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}

	loaded, reset, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(reset) != 1 || reset[0] != (Slot{Transmitter: reading.TX1, Stage: reading.StagePresent}) {
		t.Fatalf("reset = %v, want tx1/present", reset)
	}
	set, _ := loaded.Snapshot(reading.TX1, reading.StagePresent)
	if len(set) != grid.Len || set.Touched() != 0 {
		t.Fatalf("reset set len=%d touched=%d", len(set), set.Touched())
	}
	other, _ := loaded.Reading(reading.TX2, reading.StageReference, 35)
	if rf, ok := other.RF().Get(); !ok || rf != -40 {
		t.Fatalf("untouched set lost data: rf=(%v, %v)", rf, ok)
	}
}

func TestLoadResetsMissingAndSignViolatingSets(t *testing.T) {
	t.Parallel()

	entries := make([]string, grid.Len)
	for i := range entries {
		entries[i] = `{"DDM":null,"SDM":null,"RF":null}`
	}
	entries[0] = `{"DDM":4,"SDM":null,"RF":null}`
	bad := "[" + strings.Join(entries, ",") + "]"
	data := []byte(`{"values":{"tx1":{"present":` + bad + `,"reference":"oops"}},"current":{"stage":"nope"}}`)

	loaded, reset, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(reset) != 4 {
		t.Fatalf("reset = %v, want all four slots", reset)
	}
	if loaded.Cursor() != DefaultCursor() {
		t.Fatalf("cursor = %+v, want default", loaded.Cursor())
	}
}

func TestLoadEmptyAndMalformed(t *testing.T) {
	t.Parallel()

	s, reset, err := Load(nil)
	if err != nil || s == nil || len(reset) != 0 {
		t.Fatalf("Load(nil) = (%v, %v, %v)", s, reset, err)
	}
	if _, _, err := Load([]byte("{not json")); err == nil {
		t.Fatal("expected malformed json error")
	}
	if _, _, err := Load([]byte(`{"version":99}`)); err == nil {
		t.Fatal("expected unsupported version error")
	}
}
