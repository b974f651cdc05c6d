package reading

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/louisbranch/llzcal/internal/calibration/grid"
)

var (
	// ErrNotFinite indicates a NaN or infinite reading value.
	ErrNotFinite = errors.New("reading value must be finite")
	// ErrSignViolation indicates a value whose sign breaks the angle policy.
	ErrSignViolation = errors.New("reading value violates sign policy")
)

// ValidationError reports a raw input that is not a finite number.
type ValidationError struct {
	Field Field
	Input string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must be numeric", e.Field)
}

// Value is an optional reading value.
type Value struct {
	v   float64
	set bool
}

// Absent returns an unset Value.
func Absent() Value {
	return Value{}
}

func present(v float64) Value {
	return Value{v: v, set: true}
}

// Get returns the value and whether it is set.
func (v Value) Get() (float64, bool) {
	return v.v, v.set
}

// IsSet reports whether the value was recorded.
func (v Value) IsSet() bool {
	return v.set
}

// OrNaN returns the value, or NaN when absent.
func (v Value) OrNaN() float64 {
	if !v.set {
		return math.NaN()
	}
	return v.v
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (v Value) Ptr() *float64 {
	if !v.set {
		return nil
	}
	out := v.v
	return &out
}

// Reading is the normalized triple recorded for one angle.
type Reading struct {
	ddm Value
	sdm Value
	rf  Value
}

// DDM returns the signed DDM value.
func (r Reading) DDM() Value { return r.ddm }

// SDM returns the non-negative SDM value.
func (r Reading) SDM() Value { return r.sdm }

// RF returns the non-positive RF value.
func (r Reading) RF() Value { return r.rf }

// Value returns the named field.
func (r Reading) Value(field Field) Value {
	switch field {
	case FieldDDM:
		return r.ddm
	case FieldSDM:
		return r.sdm
	case FieldRF:
		return r.rf
	default:
		return Absent()
	}
}

// Touched reports whether at least one field was recorded.
func (r Reading) Touched() bool {
	return r.ddm.set || r.sdm.set || r.rf.set
}

// Raw is the wire shape of a Reading. Nil means absent.
type Raw struct {
	DDM *float64 `json:"DDM"`
	SDM *float64 `json:"SDM"`
	RF  *float64 `json:"RF"`
}

// Raw converts the reading to its wire shape.
func (r Reading) Raw() Raw {
	return Raw{DDM: r.ddm.Ptr(), SDM: r.sdm.Ptr(), RF: r.rf.Ptr()}
}

// MarshalJSON encodes absent fields as null.
func (r Reading) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Raw())
}

// FromRaw builds a Reading for angle from already signed values, rejecting
// anything the sign policy could not have produced.
func FromRaw(angle float64, raw Raw) (Reading, error) {
	var r Reading
	for _, item := range []struct {
		field Field
		in    *float64
		out   *Value
	}{
		{FieldDDM, raw.DDM, &r.ddm},
		{FieldSDM, raw.SDM, &r.sdm},
		{FieldRF, raw.RF, &r.rf},
	} {
		if item.in == nil {
			continue
		}
		v := *item.in
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Reading{}, fmt.Errorf("%s: %w", item.field, ErrNotFinite)
		}
		if !signAllowed(item.field, angle, v) {
			return Reading{}, fmt.Errorf("%s %g at angle %g: %w", item.field, v, angle, ErrSignViolation)
		}
		*item.out = present(v)
	}
	return r, nil
}

func signAllowed(field Field, angle, v float64) bool {
	switch field {
	case FieldDDM:
		switch {
		case angle < 0:
			return v <= 0
		case angle > 0:
			return v >= 0
		default:
			return true
		}
	case FieldSDM:
		return v >= 0
	case FieldRF:
		return v <= 0
	default:
		return false
	}
}

// Input is the raw operator entry for one angle. Each field is a magnitude
// string; empty means absent.
type Input struct {
	DDM      string
	SDM      string
	RF       string
	ZeroSign Sign
}

// Normalize parses in and applies the sign policy for angle. Fields are
// checked in DDM, SDM, RF order and the first failure is returned as a
// *ValidationError.
func Normalize(angle float64, in Input) (Reading, error) {
	ddm, err := parseMagnitude(FieldDDM, in.DDM)
	if err != nil {
		return Reading{}, err
	}
	sdm, err := parseMagnitude(FieldSDM, in.SDM)
	if err != nil {
		return Reading{}, err
	}
	rf, err := parseMagnitude(FieldRF, in.RF)
	if err != nil {
		return Reading{}, err
	}

	var r Reading
	if m, ok := ddm.Get(); ok {
		negative := angle < 0 || (angle == 0 && in.ZeroSign == SignMinus)
		r.ddm = present(withSign(m, negative))
	}
	if m, ok := sdm.Get(); ok {
		r.sdm = present(withSign(m, false))
	}
	if m, ok := rf.Get(); ok {
		r.rf = present(withSign(m, true))
	}
	return r, nil
}

func parseMagnitude(field Field, raw string) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Absent(), nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Absent(), &ValidationError{Field: field, Input: raw}
	}
	return present(v), nil
}

// withSign returns |v| or -|v|; zero is always +0.
func withSign(v float64, negative bool) float64 {
	m := math.Abs(v)
	if negative && m != 0 {
		return -m
	}
	return m
}

// Set is one transmitter/stage sequence of readings, index aligned to the
// angle grid.
type Set []Reading

// NewSet returns an all-absent set sized to the grid.
func NewSet() Set {
	return make(Set, grid.Len)
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Touched counts readings with at least one recorded field.
func (s Set) Touched() int {
	n := 0
	for _, r := range s {
		if r.Touched() {
			n++
		}
	}
	return n
}

// Complete reports whether the set is grid sized and every angle has at least
// one recorded field.
func (s Set) Complete() bool {
	return len(s) == grid.Len && s.Touched() == grid.Len
}

// Values returns field values in set order with NaN for absent entries.
func (s Set) Values(field Field) []float64 {
	out := make([]float64, len(s))
	for i, r := range s {
		out[i] = r.Value(field).OrNaN()
	}
	return out
}
