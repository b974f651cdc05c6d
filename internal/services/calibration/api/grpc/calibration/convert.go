package calibration

import (
	"fmt"
	"math"

	calibrationv1 "github.com/louisbranch/llzcal/api/calibration/v1"
	"github.com/louisbranch/llzcal/internal/calibration/grid"
	"github.com/louisbranch/llzcal/internal/calibration/metrics"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
	"github.com/louisbranch/llzcal/internal/calibration/store"
	"github.com/louisbranch/llzcal/internal/services/calibration/storage"
)

func metaFromProto(in calibrationv1.Meta) store.Meta {
	return store.Meta{
		Station:       in.Station,
		Frequency:     in.Frequency,
		Make:          in.Make,
		Model:         in.Model,
		ReferenceDate: in.ReferenceDate,
		PresentDate:   in.PresentDate,
		Course:        in.Course,
	}
}

func metaToProto(in store.Meta) calibrationv1.Meta {
	return calibrationv1.Meta{
		Station:       in.Station,
		Frequency:     in.Frequency,
		Make:          in.Make,
		Model:         in.Model,
		ReferenceDate: in.ReferenceDate,
		PresentDate:   in.PresentDate,
		Course:        in.Course,
	}
}

// cursorFromProto parses wire labels; the angle field is ignored.
func cursorFromProto(in calibrationv1.Cursor) (store.Cursor, error) {
	stage, err := reading.ParseStage(in.Stage)
	if err != nil {
		return store.Cursor{}, stageError(in.Stage, err)
	}
	var tx reading.Transmitter
	if in.Transmitter != "" {
		tx, err = reading.ParseTransmitter(in.Transmitter)
		if err != nil {
			return store.Cursor{}, transmitterError(in.Transmitter, err)
		}
	}
	dir := grid.NegToPos
	if in.Direction != "" {
		dir, err = grid.ParseDirection(in.Direction)
		if err != nil {
			return store.Cursor{}, cursorError(fmt.Errorf("%w: %v", store.ErrInvalidMeta, err))
		}
	}
	return store.Cursor{
		Stage:       stage,
		Transmitter: tx,
		Direction:   dir,
		Position:    int(in.Position),
	}, nil
}

func cursorToProto(in store.Cursor) calibrationv1.Cursor {
	out := calibrationv1.Cursor{
		Stage:       string(in.Stage),
		Transmitter: string(in.Transmitter),
		Direction:   string(in.Direction),
		Position:    int32(in.Position),
	}
	if angle, ok := in.Angle(); ok {
		out.Angle = angle
	}
	return out
}

func progressToProto(st *store.Store, slot store.Slot) calibrationv1.SlotProgress {
	touched, total := st.Progress(slot.Transmitter, slot.Stage)
	return calibrationv1.SlotProgress{
		Transmitter: string(slot.Transmitter),
		Stage:       string(slot.Stage),
		Touched:     int32(touched),
		Total:       int32(total),
		Complete:    st.IsStageComplete(slot.Transmitter, slot.Stage),
	}
}

func sessionToProto(record storage.Session, st *store.Store) calibrationv1.Session {
	out := calibrationv1.Session{
		ID:        record.ID,
		Meta:      metaToProto(st.Meta()),
		Cursor:    cursorToProto(st.Cursor()),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	for _, slot := range store.Slots() {
		out.Progress = append(out.Progress, progressToProto(st, slot))
	}
	return out
}

func readingToProto(angle float64, r reading.Reading) calibrationv1.Reading {
	return calibrationv1.Reading{
		Angle: angle,
		DDM:   r.DDM().Ptr(),
		SDM:   r.SDM().Ptr(),
		RF:    r.RF().Ptr(),
	}
}

func setToProto(set reading.Set) []calibrationv1.Reading {
	out := make([]calibrationv1.Reading, 0, len(set))
	for i, r := range set {
		angle, _ := grid.At(i)
		out = append(out, readingToProto(angle, r))
	}
	return out
}

// optional maps NaN to nil; JSON has no NaN.
func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func optionals(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		out[i] = optional(v)
	}
	return out
}

func metricsToProto(tx reading.Transmitter, m metrics.Metrics) calibrationv1.Metrics {
	return calibrationv1.Metrics{
		Transmitter:         string(tx),
		DDMDiff:             optionals(m.DDMDiff),
		SDMDiff:             optionals(m.SDMDiff),
		RFDiff:              optionals(m.RFDiff),
		CenterlineDeviation: optional(m.CenterlineDeviation),
		SectorHalfWidth:     m.SectorHalfWidth,
		SectorMaxDDM:        optional(m.SectorMaxDDM),
		SDMSlopePresent:     optional(m.SDMSlopePresent),
		SDMSlopeReference:   optional(m.SDMSlopeReference),
		DDMAbsMean:          optional(m.DDMAbs.Mean),
		DDMAbsMax:           optional(m.DDMAbs.Max),
		RFAbsMean:           optional(m.RFAbs.Mean),
		RFAbsMax:            optional(m.RFAbs.Max),
	}
}
