package metrics

import (
	"errors"
	"math"
	"testing"

	"github.com/louisbranch/llzcal/internal/calibration/grid"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
)

func put(t *testing.T, set reading.Set, angle float64, in reading.Input) {
	t.Helper()
	idx, ok := grid.IndexOf(angle)
	if !ok {
		t.Fatalf("angle %v not on grid", angle)
	}
	r, err := reading.Normalize(angle, in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	set[idx] = r
}

func at(t *testing.T, values []float64, angle float64) float64 {
	t.Helper()
	idx, ok := grid.IndexOf(angle)
	if !ok {
		t.Fatalf("angle %v not on grid", angle)
	}
	return values[idx]
}

func nan() float64 { return math.NaN() }

func TestComputeScenarioDiffDirection(t *testing.T) {
	t.Parallel()

	present, reference := reading.NewSet(), reading.NewSet()
	put(t, present, -10, reading.Input{DDM: "5", SDM: "3", RF: "2"})
	put(t, reference, -10, reading.Input{DDM: "3", SDM: "1", RF: "1"})

	m, err := Compute(present, reference)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if got := at(t, m.DDMDiff, -10); got != 2 {
		t.Fatalf("DDM diff at -10 = %v, want 2", got)
	}
	if got := at(t, m.SDMDiff, -10); got != -2 {
		t.Fatalf("SDM diff at -10 = %v, want -2", got)
	}
	if got := at(t, m.RFDiff, -10); got != 1 {
		t.Fatalf("RF diff at -10 = %v, want 1", got)
	}
	if got := at(t, m.DDMDiff, 10); !math.IsNaN(got) {
		t.Fatalf("DDM diff at 10 = %v, want NaN", got)
	}
	if m.SectorHalfWidth != DefaultSectorHalfWidth {
		t.Fatalf("half width = %v, want default", m.SectorHalfWidth)
	}
	if m.SectorMaxDDM != 2 {
		t.Fatalf("sector max = %v, want 2", m.SectorMaxDDM)
	}
	if m.RFAbs.Mean != 1 || m.RFAbs.Max != 1 {
		t.Fatalf("rf abs = %+v, want mean 1 max 1", m.RFAbs)
	}
	if !math.IsNaN(m.CenterlineDeviation) {
		t.Fatalf("centerline = %v, want NaN without zero-angle data", m.CenterlineDeviation)
	}
	if !math.IsNaN(m.SDMSlopePresent) {
		t.Fatalf("slope with one point = %v, want NaN", m.SDMSlopePresent)
	}
}

func TestComputeIdenticalSetsGiveZeroDiffs(t *testing.T) {
	t.Parallel()

	present, reference := reading.NewSet(), reading.NewSet()
	for _, angle := range grid.Angles() {
		in := reading.Input{DDM: "3.5", SDM: "40", RF: "12", ZeroSign: reading.SignMinus}
		put(t, present, angle, in)
		put(t, reference, angle, in)
	}
	m, err := Compute(present, reference)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	for i, v := range m.DDMDiff {
		if v != 0 {
			t.Fatalf("DDM diff[%d] = %v, want 0", i, v)
		}
	}
	if m.CenterlineDeviation != 0 {
		t.Fatalf("centerline = %v, want 0", m.CenterlineDeviation)
	}
	if m.DDMAbs.Mean != 0 || m.DDMAbs.Max != 0 {
		t.Fatalf("ddm abs = %+v, want zeros", m.DDMAbs)
	}
	if m.SDMSlopePresent != 0 || m.SDMSlopeReference != 0 {
		t.Fatalf("constant SDM slopes = %v/%v, want 0", m.SDMSlopePresent, m.SDMSlopeReference)
	}
}

func TestCenterlineDeviationIsPresentMinusReference(t *testing.T) {
	t.Parallel()

	present, reference := reading.NewSet(), reading.NewSet()
	put(t, present, 0, reading.Input{DDM: "2", ZeroSign: reading.SignMinus})
	put(t, reference, 0, reading.Input{DDM: "1"})

	got, err := CenterlineDeviation(present, reference)
	if err != nil {
		t.Fatalf("centerline: %v", err)
	}
	if got != -3 {
		t.Fatalf("centerline = %v, want -3", got)
	}
}

func TestSectorMaxIgnoresNaN(t *testing.T) {
	t.Parallel()

	diff := make([]float64, grid.Len)
	for i := range diff {
		diff[i] = nan()
	}
	set := func(angle, v float64) {
		idx, _ := grid.IndexOf(angle)
		diff[idx] = v
	}
	set(0, 1)
	set(5, 3)
	set(-5, nan())
	set(20, 50)

	if got := SectorMax(diff, DefaultSectorHalfWidth); got != 3 {
		t.Fatalf("sector max = %v, want 3", got)
	}
	if got := SectorMax(diff, 30); got != 50 {
		t.Fatalf("wide sector max = %v, want 50", got)
	}
	set(-10, -7)
	if got := SectorMax(diff, 10); got != 7 {
		t.Fatalf("inclusive bound with negative diff = %v, want 7", got)
	}
	empty := make([]float64, grid.Len)
	for i := range empty {
		empty[i] = nan()
	}
	if got := SectorMax(empty, 10); !math.IsNaN(got) {
		t.Fatalf("empty sector max = %v, want NaN", got)
	}
}

func TestLinearSlope(t *testing.T) {
	t.Parallel()

	sequence := func(points map[float64]float64) []float64 {
		out := make([]float64, grid.Len)
		for i := range out {
			out[i] = nan()
		}
		for angle, v := range points {
			idx, _ := grid.IndexOf(angle)
			out[idx] = v
		}
		return out
	}

	tests := []struct {
		name   string
		points map[float64]float64
		want   float64
	}{
		{name: "single point", points: map[float64]float64{5: 1}, want: nan()},
		{name: "constant", points: map[float64]float64{-10: 2, 0: 2, 10: 2}, want: 0},
		{name: "line", points: map[float64]float64{-10: -19, 0: 1, 10: 21, 35: 71}, want: 2},
		{name: "no points", points: map[float64]float64{}, want: nan()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := LinearSlope(sequence(tc.points))
			if math.IsNaN(tc.want) {
				if !math.IsNaN(got) {
					t.Fatalf("slope = %v, want NaN", got)
				}
				return
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("slope = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSlopeZeroVariance(t *testing.T) {
	t.Parallel()

	if got := Slope([]float64{3, 3, 3}, []float64{1, 2, 3}); !math.IsNaN(got) {
		t.Fatalf("slope = %v, want NaN", got)
	}
	if got := Slope([]float64{1, 2}, []float64{1}); !math.IsNaN(got) {
		t.Fatalf("mismatched slope = %v, want NaN", got)
	}
}

func TestAbs(t *testing.T) {
	t.Parallel()

	stats := Abs([]float64{-4, nan(), 2, 0})
	if stats.Mean != 2 || stats.Max != 4 {
		t.Fatalf("abs = %+v, want mean 2 max 4", stats)
	}
	empty := Abs([]float64{nan(), nan()})
	if !math.IsNaN(empty.Mean) || !math.IsNaN(empty.Max) {
		t.Fatalf("empty abs = %+v, want NaN", empty)
	}
}

func TestComputeRejectsWrongShape(t *testing.T) {
	t.Parallel()

	short := reading.NewSet()[:grid.Len-1]
	long := append(reading.NewSet(), reading.Reading{})

	tests := []struct {
		name               string
		present, reference reading.Set
		which              string
		got                int
	}{
		{name: "short present", present: short, reference: reading.NewSet(), which: "present", got: grid.Len - 1},
		{name: "long reference", present: reading.NewSet(), reference: long, which: "reference", got: grid.Len + 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compute(tc.present, tc.reference)
			var shapeErr *ShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("error = %v, want *ShapeError", err)
			}
			if shapeErr.Which != tc.which || shapeErr.Got != tc.got || shapeErr.Want != grid.Len {
				t.Fatalf("shape error = %+v", shapeErr)
			}
			if _, err := SignedDiff(tc.present, tc.reference, reading.FieldDDM); !errors.As(err, &shapeErr) {
				t.Fatalf("signed diff error = %v, want *ShapeError", err)
			}
		})
	}
}

func TestComputeWithSectorHalfWidth(t *testing.T) {
	t.Parallel()

	present, reference := reading.NewSet(), reading.NewSet()
	put(t, present, 14, reading.Input{DDM: "1"})
	put(t, reference, 14, reading.Input{DDM: "6"})

	m, err := Compute(present, reference)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !math.IsNaN(m.SectorMaxDDM) {
		t.Fatalf("default sector max = %v, want NaN", m.SectorMaxDDM)
	}
	m, err = Compute(present, reference, WithSectorHalfWidth(14))
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if m.SectorMaxDDM != 5 || m.SectorHalfWidth != 14 {
		t.Fatalf("sector max = %v (half width %v), want 5 at 14", m.SectorMaxDDM, m.SectorHalfWidth)
	}
}
