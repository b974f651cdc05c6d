package reading

import (
	"fmt"
	"strings"
)

// Transmitter identifies one of the two localizer transmitters.
type Transmitter string

const (
	// TX1 is the first transmitter.
	TX1 Transmitter = "tx1"
	// TX2 is the second transmitter.
	TX2 Transmitter = "tx2"
)

// Transmitters returns both transmitters in display order.
func Transmitters() []Transmitter {
	return []Transmitter{TX1, TX2}
}

// ParseTransmitter maps a label such as "TX1" or "tx2" to a Transmitter.
func ParseTransmitter(value string) (Transmitter, error) {
	switch Transmitter(strings.ToLower(strings.TrimSpace(value))) {
	case TX1:
		return TX1, nil
	case TX2:
		return TX2, nil
	default:
		return "", fmt.Errorf("unknown transmitter %q", value)
	}
}

// Stage identifies a measurement campaign.
type Stage string

const (
	// StagePresent holds the as-found readings.
	StagePresent Stage = "present"
	// StageReference holds the baseline readings.
	StageReference Stage = "reference"
)

// Stages returns both stages in entry order.
func Stages() []Stage {
	return []Stage{StagePresent, StageReference}
}

// ParseStage maps a label to a Stage.
func ParseStage(value string) (Stage, error) {
	switch Stage(strings.ToLower(strings.TrimSpace(value))) {
	case StagePresent:
		return StagePresent, nil
	case StageReference:
		return StageReference, nil
	default:
		return "", fmt.Errorf("unknown stage %q", value)
	}
}

// Next returns the stage an operator moves to once this one is finished.
func (s Stage) Next() Stage {
	if s == StagePresent {
		return StageReference
	}
	return StagePresent
}

// Field names one of the three values in a Reading.
type Field string

const (
	FieldDDM Field = "DDM"
	FieldSDM Field = "SDM"
	FieldRF  Field = "RF"
)

// Fields returns the reading fields in entry order.
func Fields() []Field {
	return []Field{FieldDDM, FieldSDM, FieldRF}
}

// Sign is the operator's explicit DDM sign choice at the zero angle.
type Sign string

const (
	// SignUnset leaves the default (+) in effect.
	SignUnset Sign = ""
	SignPlus  Sign = "+"
	SignMinus Sign = "-"
)

// ParseSign maps "+", "-" or "" to a Sign.
func ParseSign(value string) (Sign, error) {
	switch Sign(strings.TrimSpace(value)) {
	case SignUnset:
		return SignUnset, nil
	case SignPlus:
		return SignPlus, nil
	case SignMinus:
		return SignMinus, nil
	default:
		return SignUnset, fmt.Errorf("unknown sign %q", value)
	}
}
