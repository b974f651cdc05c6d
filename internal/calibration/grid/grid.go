// Package grid publishes the fixed localizer calibration angle grid.
//
// The grid is dense near the course line and sparse at the extremes. Its order
// drives iteration, table rows and chart axes, and every reading set is index
// aligned to it. Callers receive copies; the grid never changes at runtime.
package grid

import (
	"fmt"
	"strings"
)

// Len is the number of angles in the grid.
const Len = 43

var angles = [Len]float64{
	-35, -30, -25, -20, -14, -13, -12, -11, -10,
	-9, -8, -7, -6, -5, -4, -3, -2.5, -2, -1.5, -1, -0.5,
	0, 0.5, 1, 1.5, 2, 2.5, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 20, 25, 30, 35,
}

// Angles returns the grid angles in degrees, in grid order.
func Angles() []float64 {
	out := make([]float64, Len)
	copy(out, angles[:])
	return out
}

// At returns the angle stored at grid index i.
func At(i int) (float64, bool) {
	if i < 0 || i >= Len {
		return 0, false
	}
	return angles[i], true
}

// IndexOf finds the grid index holding angle by exact value match.
func IndexOf(angle float64) (int, bool) {
	for i, a := range angles {
		if a == angle {
			return i, true
		}
	}
	return -1, false
}

// Direction is the order in which an operator walks the grid.
type Direction string

const (
	// NegToPos walks from -35 up to +35.
	NegToPos Direction = "neg2pos"
	// PosToNeg walks from +35 down to -35.
	PosToNeg Direction = "pos2neg"
)

// ParseDirection maps a label to a Direction.
func ParseDirection(value string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case NegToPos:
		return NegToPos, nil
	case PosToNeg:
		return PosToNeg, nil
	default:
		return "", fmt.Errorf("unknown direction %q", value)
	}
}

// IndexAt maps a walk position to a grid index. Unknown directions walk
// NegToPos.
func IndexAt(dir Direction, position int) (int, bool) {
	if position < 0 || position >= Len {
		return -1, false
	}
	if dir == PosToNeg {
		return Len - 1 - position, true
	}
	return position, true
}

// AngleAt maps a walk position to its angle.
func AngleAt(dir Direction, position int) (float64, bool) {
	idx, ok := IndexAt(dir, position)
	if !ok {
		return 0, false
	}
	return angles[idx], true
}

// Ordered returns the grid angles in walk order.
func Ordered(dir Direction) []float64 {
	out := make([]float64, Len)
	for pos := range out {
		idx, _ := IndexAt(dir, pos)
		out[pos] = angles[idx]
	}
	return out
}
