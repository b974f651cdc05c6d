package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/louisbranch/llzcal/internal/calibration/grid"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
)

// ErrInvalidMeta indicates session metadata or cursor values that fail validation.
var ErrInvalidMeta = errors.New("invalid session metadata")

// DateLayout is the DD-MM-YYYY layout used for survey dates.
const DateLayout = "02-01-2006"

var datePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// Meta describes the facility and survey dates of a session.
type Meta struct {
	Station       string `json:"station"`
	Frequency     string `json:"freq"`
	Make          string `json:"make"`
	Model         string `json:"model"`
	ReferenceDate string `json:"refDate"`
	PresentDate   string `json:"presDate"`
	Course        string `json:"course"`
}

// Normalize trims every field.
func (m Meta) Normalize() Meta {
	return Meta{
		Station:       strings.TrimSpace(m.Station),
		Frequency:     strings.TrimSpace(m.Frequency),
		Make:          strings.TrimSpace(m.Make),
		Model:         strings.TrimSpace(m.Model),
		ReferenceDate: strings.TrimSpace(m.ReferenceDate),
		PresentDate:   strings.TrimSpace(m.PresentDate),
		Course:        strings.TrimSpace(m.Course),
	}
}

// ValidateMeta checks that non-empty survey dates are real DD-MM-YYYY dates.
func ValidateMeta(m Meta) error {
	for _, date := range []struct {
		name  string
		value string
	}{
		{"reference date", m.ReferenceDate},
		{"present date", m.PresentDate},
	} {
		if date.value == "" {
			continue
		}
		if !datePattern.MatchString(date.value) {
			return fmt.Errorf("%w: %s must be DD-MM-YYYY", ErrInvalidMeta, date.name)
		}
		if _, err := time.Parse(DateLayout, date.value); err != nil {
			return fmt.Errorf("%w: %s is not a calendar date", ErrInvalidMeta, date.name)
		}
	}
	return nil
}

// Cursor is the operator's position in the entry walk.
type Cursor struct {
	Stage       reading.Stage       `json:"stage"`
	Transmitter reading.Transmitter `json:"tx"`
	Direction   grid.Direction      `json:"direction"`
	Position    int                 `json:"idx"`
}

// DefaultCursor starts the present stage walking from -35 with no
// transmitter chosen.
func DefaultCursor() Cursor {
	return Cursor{Stage: reading.StagePresent, Direction: grid.NegToPos}
}

// Validate checks every cursor field. An empty transmitter means none chosen.
func (c Cursor) Validate() error {
	if _, err := reading.ParseStage(string(c.Stage)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMeta, err)
	}
	if c.Transmitter != "" {
		if _, err := reading.ParseTransmitter(string(c.Transmitter)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMeta, err)
		}
	}
	if _, err := grid.ParseDirection(string(c.Direction)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMeta, err)
	}
	if c.Position < 0 || c.Position >= grid.Len {
		return fmt.Errorf("%w: position %d out of range", ErrInvalidMeta, c.Position)
	}
	return nil
}

// Angle returns the angle under the cursor.
func (c Cursor) Angle() (float64, bool) {
	return grid.AngleAt(c.Direction, c.Position)
}
