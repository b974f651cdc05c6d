// Package store owns the calibration reading sets for one session.
//
// A Store holds four reading sets (two transmitters by two stages), the
// session metadata and the operator's entry cursor. All reading writes go
// through RecordReading so the sign policy is applied in one place. A Store is
// not safe for concurrent use; callers hosting several writers serialize
// access themselves.
package store

import (
	"errors"
	"fmt"

	"github.com/louisbranch/llzcal/internal/calibration/grid"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
)

var (
	// ErrUnknownTransmitter indicates a transmitter outside tx1/tx2.
	ErrUnknownTransmitter = errors.New("unknown transmitter")
	// ErrUnknownStage indicates a stage outside present/reference.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrUnknownAngle indicates an angle that is not on the grid.
	ErrUnknownAngle = errors.New("angle is not on the calibration grid")
)

// Slot addresses one reading set.
type Slot struct {
	Transmitter reading.Transmitter
	Stage       reading.Stage
}

func (s Slot) String() string {
	return fmt.Sprintf("%s/%s", s.Transmitter, s.Stage)
}

// Slots returns the four slots in table order.
func Slots() []Slot {
	out := make([]Slot, 0, 4)
	for _, tx := range reading.Transmitters() {
		for _, stage := range reading.Stages() {
			out = append(out, Slot{Transmitter: tx, Stage: stage})
		}
	}
	return out
}

// Store holds the reading sets, metadata and cursor of one session.
type Store struct {
	meta   Meta
	cursor Cursor
	sets   [2][2]reading.Set
}

// New returns a store with all readings absent.
func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

// Reset clears every reading set, the metadata and the cursor.
func (s *Store) Reset() {
	s.meta = Meta{}
	s.cursor = DefaultCursor()
	for i := range s.sets {
		for j := range s.sets[i] {
			s.sets[i][j] = reading.NewSet()
		}
	}
}

func slotIndex(tx reading.Transmitter, stage reading.Stage) (int, int, error) {
	var i, j int
	switch tx {
	case reading.TX1:
		i = 0
	case reading.TX2:
		i = 1
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownTransmitter, tx)
	}
	switch stage {
	case reading.StagePresent:
		j = 0
	case reading.StageReference:
		j = 1
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}
	return i, j, nil
}

func (s *Store) set(tx reading.Transmitter, stage reading.Stage) (reading.Set, error) {
	i, j, err := slotIndex(tx, stage)
	if err != nil {
		return nil, err
	}
	return s.sets[i][j], nil
}

func angleIndex(angle float64) (int, error) {
	idx, ok := grid.IndexOf(angle)
	if !ok {
		return -1, fmt.Errorf("%w: %g", ErrUnknownAngle, angle)
	}
	return idx, nil
}

// RecordReading normalizes in for angle and overwrites that slot. Nothing is
// written when any field fails validation.
func (s *Store) RecordReading(tx reading.Transmitter, stage reading.Stage, angle float64, in reading.Input) error {
	set, err := s.set(tx, stage)
	if err != nil {
		return err
	}
	idx, err := angleIndex(angle)
	if err != nil {
		return err
	}
	r, err := reading.Normalize(angle, in)
	if err != nil {
		return err
	}
	set[idx] = r
	return nil
}

// Reading returns the reading stored for angle.
func (s *Store) Reading(tx reading.Transmitter, stage reading.Stage, angle float64) (reading.Reading, error) {
	set, err := s.set(tx, stage)
	if err != nil {
		return reading.Reading{}, err
	}
	idx, err := angleIndex(angle)
	if err != nil {
		return reading.Reading{}, err
	}
	return set[idx], nil
}

// Snapshot returns a copy of the set in grid order.
func (s *Store) Snapshot(tx reading.Transmitter, stage reading.Stage) (reading.Set, error) {
	set, err := s.set(tx, stage)
	if err != nil {
		return nil, err
	}
	return set.Clone(), nil
}

// IsStageComplete reports whether every angle of the set has at least one
// recorded field. Unknown slots are never complete.
func (s *Store) IsStageComplete(tx reading.Transmitter, stage reading.Stage) bool {
	set, err := s.set(tx, stage)
	if err != nil {
		return false
	}
	return set.Complete()
}

// Progress returns how many angles of the set have been touched.
func (s *Store) Progress(tx reading.Transmitter, stage reading.Stage) (touched, total int) {
	set, err := s.set(tx, stage)
	if err != nil {
		return 0, grid.Len
	}
	return set.Touched(), grid.Len
}

// StageCompleteForAll reports whether both transmitters finished stage.
func (s *Store) StageCompleteForAll(stage reading.Stage) bool {
	for _, tx := range reading.Transmitters() {
		if !s.IsStageComplete(tx, stage) {
			return false
		}
	}
	return true
}

// Meta returns the session metadata.
func (s *Store) Meta() Meta {
	return s.meta
}

// SetMeta validates and replaces the session metadata.
func (s *Store) SetMeta(meta Meta) error {
	meta = meta.Normalize()
	if err := ValidateMeta(meta); err != nil {
		return err
	}
	s.meta = meta
	return nil
}

// Cursor returns the operator's entry position.
func (s *Store) Cursor() Cursor {
	return s.cursor
}

// SetCursor validates and replaces the entry position.
func (s *Store) SetCursor(cursor Cursor) error {
	if err := cursor.Validate(); err != nil {
		return err
	}
	s.cursor = cursor
	return nil
}
