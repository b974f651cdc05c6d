// Package metrics compares a transmitter's present readings against its
// reference readings.
//
// Every function is pure. Absent readings become NaN and NaN propagates
// through the arithmetic: a NaN result means there was not enough data, it is
// never an error. The only failure is a reading set that is not grid sized.
package metrics

import (
	"fmt"
	"math"

	"github.com/louisbranch/llzcal/internal/calibration/grid"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
)

// DefaultSectorHalfWidth bounds the sector maximum to ±10 degrees.
const DefaultSectorHalfWidth = 10.0

// ShapeError reports a reading set whose length differs from the grid.
type ShapeError struct {
	Which string
	Got   int
	Want  int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s set has %d readings, want %d", e.Which, e.Got, e.Want)
}

// AbsStats summarizes absolute differences.
type AbsStats struct {
	Mean float64
	Max  float64
}

// Metrics is the derived comparison for one transmitter. Diff sequences are
// grid ordered and computed as reference minus present.
type Metrics struct {
	DDMDiff []float64
	SDMDiff []float64
	RFDiff  []float64

	// CenterlineDeviation is present DDM minus reference DDM at 0 degrees.
	CenterlineDeviation float64

	SectorHalfWidth float64
	SectorMaxDDM    float64

	SDMSlopePresent   float64
	SDMSlopeReference float64

	DDMAbs AbsStats
	RFAbs  AbsStats
}

type options struct {
	sectorHalfWidth float64
}

// Option tunes Compute.
type Option func(*options)

// WithSectorHalfWidth overrides DefaultSectorHalfWidth.
func WithSectorHalfWidth(degrees float64) Option {
	return func(o *options) {
		o.sectorHalfWidth = degrees
	}
}

func checkShape(present, reference reading.Set) error {
	if len(present) != grid.Len {
		return &ShapeError{Which: string(reading.StagePresent), Got: len(present), Want: grid.Len}
	}
	if len(reference) != grid.Len {
		return &ShapeError{Which: string(reading.StageReference), Got: len(reference), Want: grid.Len}
	}
	return nil
}

// Compute derives every comparison value from a present/reference pair.
func Compute(present, reference reading.Set, opts ...Option) (Metrics, error) {
	if err := checkShape(present, reference); err != nil {
		return Metrics{}, err
	}
	o := options{sectorHalfWidth: DefaultSectorHalfWidth}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	m := Metrics{
		DDMDiff:         diff(present, reference, reading.FieldDDM),
		SDMDiff:         diff(present, reference, reading.FieldSDM),
		RFDiff:          diff(present, reference, reading.FieldRF),
		SectorHalfWidth: o.sectorHalfWidth,
	}
	m.CenterlineDeviation = centerline(present, reference)
	m.SectorMaxDDM = SectorMax(m.DDMDiff, o.sectorHalfWidth)
	m.SDMSlopePresent = LinearSlope(present.Values(reading.FieldSDM))
	m.SDMSlopeReference = LinearSlope(reference.Values(reading.FieldSDM))
	m.DDMAbs = Abs(m.DDMDiff)
	m.RFAbs = Abs(m.RFDiff)
	return m, nil
}

// SignedDiff returns reference minus present for field at every grid angle.
func SignedDiff(present, reference reading.Set, field reading.Field) ([]float64, error) {
	if err := checkShape(present, reference); err != nil {
		return nil, err
	}
	return diff(present, reference, field), nil
}

func diff(present, reference reading.Set, field reading.Field) []float64 {
	out := make([]float64, len(present))
	for i := range present {
		out[i] = reference[i].Value(field).OrNaN() - present[i].Value(field).OrNaN()
	}
	return out
}

// CenterlineDeviation returns present DDM minus reference DDM at 0 degrees.
func CenterlineDeviation(present, reference reading.Set) (float64, error) {
	if err := checkShape(present, reference); err != nil {
		return math.NaN(), err
	}
	return centerline(present, reference), nil
}

func centerline(present, reference reading.Set) float64 {
	idx, ok := grid.IndexOf(0)
	if !ok {
		return math.NaN()
	}
	return present[idx].DDM().OrNaN() - reference[idx].DDM().OrNaN()
}

// SectorMax returns the largest |diff| among grid angles with
// |angle| <= halfWidth, skipping NaN. It is NaN when no angle qualifies.
func SectorMax(diff []float64, halfWidth float64) float64 {
	best := math.NaN()
	for i, v := range diff {
		angle, ok := grid.At(i)
		if !ok || math.Abs(angle) > halfWidth || math.IsNaN(v) {
			continue
		}
		if a := math.Abs(v); math.IsNaN(best) || a > best {
			best = a
		}
	}
	return best
}

// LinearSlope fits values against their grid angles by ordinary least squares,
// using only numeric points.
func LinearSlope(values []float64) float64 {
	xs := make([]float64, 0, len(values))
	ys := make([]float64, 0, len(values))
	for i, v := range values {
		angle, ok := grid.At(i)
		if !ok || math.IsNaN(v) {
			continue
		}
		xs = append(xs, angle)
		ys = append(ys, v)
	}
	return Slope(xs, ys)
}

// Slope is the least-squares slope of ys over xs. It is NaN with fewer than
// two points, mismatched lengths or no spread in x.
func Slope(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return math.NaN()
	}
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, den float64
	for i := range xs {
		dx := xs[i] - meanX
		num += dx * (ys[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// Abs returns the mean and maximum of |diff| over numeric entries.
func Abs(diff []float64) AbsStats {
	var sum float64
	count := 0
	best := math.Inf(-1)
	for _, v := range diff {
		if math.IsNaN(v) {
			continue
		}
		a := math.Abs(v)
		sum += a
		count++
		if a > best {
			best = a
		}
	}
	if count == 0 {
		return AbsStats{Mean: math.NaN(), Max: math.NaN()}
	}
	return AbsStats{Mean: sum / float64(count), Max: best}
}
