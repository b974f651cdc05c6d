// Package report renders stored readings and computed metrics as text tables.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/louisbranch/llzcal/internal/calibration/grid"
	"github.com/louisbranch/llzcal/internal/calibration/metrics"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
	"github.com/louisbranch/llzcal/internal/calibration/store"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NA is printed for values that cannot be computed.
const NA = "NA"

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.MustParse("pt-BR"),
	language.German,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Default returns the default report locale.
func Default() language.Tag {
	return language.AmericanEnglish
}

// ParseLocale matches value against the supported report locales. Empty or
// unparsable values fall back to the default.
func ParseLocale(value string) language.Tag {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default()
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default()
	}
	_, index, confidence := tagMatcher.Match(tag)
	if confidence == language.No {
		return Default()
	}
	return supportedTags[index]
}

// Writer formats numbers for one locale.
type Writer struct {
	printer *message.Printer
}

// New returns a report writer for tag.
func New(tag language.Tag) *Writer {
	return &Writer{printer: message.NewPrinter(tag)}
}

// Number formats v with three fraction digits, or NA when v is NaN.
func (r *Writer) Number(v float64) string {
	if math.IsNaN(v) {
		return NA
	}
	return r.printer.Sprint(number.Decimal(v, number.MinFractionDigits(3), number.MaxFractionDigits(3)))
}

func (r *Writer) value(v reading.Value) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return r.Number(f)
}

func (r *Writer) angle(a float64) string {
	return r.printer.Sprint(number.Decimal(a, number.MaxFractionDigits(1)))
}

// WriteMeta prints the non-empty session metadata fields.
func (r *Writer) WriteMeta(w io.Writer, meta store.Meta) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, field := range []struct {
		label string
		value string
	}{
		{"Station", meta.Station},
		{"Frequency", meta.Frequency},
		{"Make", meta.Make},
		{"Model", meta.Model},
		{"Reference date", meta.ReferenceDate},
		{"Present date", meta.PresentDate},
		{"Course", meta.Course},
	} {
		if field.value == "" {
			continue
		}
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", field.label, field.value); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteTable prints one reading set as Angle, DDM, SDM and RF columns, rows
// in dir walk order. Absent values are left blank.
func (r *Writer) WriteTable(w io.Writer, slot store.Slot, set reading.Set, dir grid.Direction) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", strings.ToUpper(string(slot.Transmitter)), titleStage(slot.Stage)); err != nil {
		return err
	}
	fields := reading.Fields()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := "Angle\t"
	for _, field := range fields {
		header += string(field) + "\t"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}
	for pos, a := range grid.Ordered(dir) {
		var rd reading.Reading
		if idx, ok := grid.IndexAt(dir, pos); ok && idx < len(set) {
			rd = set[idx]
		}
		row := r.angle(a) + "\t"
		for _, field := range fields {
			row += r.value(rd.Value(field)) + "\t"
		}
		if _, err := fmt.Fprintln(tw, row); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteTables prints the four reading sets of st in slot order, walking the
// grid in the direction of the session cursor.
func (r *Writer) WriteTables(w io.Writer, st *store.Store) error {
	dir := st.Cursor().Direction
	for i, slot := range store.Slots() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		set, err := st.Snapshot(slot.Transmitter, slot.Stage)
		if err != nil {
			return err
		}
		if err := r.WriteTable(w, slot, set, dir); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary prints the metrics computed for one transmitter.
func (r *Writer) WriteSummary(w io.Writer, tx reading.Transmitter, m metrics.Metrics) error {
	if _, err := fmt.Fprintf(w, "--- %s ---\n", strings.ToUpper(string(tx))); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		label string
		value float64
	}{
		{"Centerline deviation (DDM)", m.CenterlineDeviation},
		{fmt.Sprintf("Max |DDM diff| within ±%s°", r.angle(m.SectorHalfWidth)), m.SectorMaxDDM},
		{"SDM slope present", m.SDMSlopePresent},
		{"SDM slope reference", m.SDMSlopeReference},
		{"Mean |DDM diff|", m.DDMAbs.Mean},
		{"Max |DDM diff|", m.DDMAbs.Max},
		{"Mean |RF diff|", m.RFAbs.Mean},
		{"Max |RF diff|", m.RFAbs.Max},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", row.label, r.Number(row.value)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return r.writeDDMDiff(w, m.DDMDiff)
}

// writeDDMDiff prints the per-angle DDM differences (reference minus present)
// in grid order, NA where either side is missing.
func (r *Writer) writeDDMDiff(w io.Writer, diff []float64) error {
	if _, err := fmt.Fprintln(w, "DDM diff (reference - present):"); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintln(tw, "Angle\tDiff\t"); err != nil {
		return err
	}
	for i, a := range grid.Angles() {
		v := math.NaN()
		if i < len(diff) {
			v = diff[i]
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t\n", r.angle(a), r.Number(v)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func titleStage(stage reading.Stage) string {
	s := string(stage)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
