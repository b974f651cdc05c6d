package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeReadingNotNumeric         = "READING_NOT_NUMERIC"
	CodeReadingUnknownAngle       = "READING_UNKNOWN_ANGLE"
	CodeReadingUnknownTransmitter = "READING_UNKNOWN_TRANSMITTER"
	CodeReadingUnknownStage       = "READING_UNKNOWN_STAGE"
	CodeReadingUnknownField       = "READING_UNKNOWN_FIELD"
	CodeReadingInvalidZeroSign    = "READING_INVALID_ZERO_SIGN"
	CodeReadingCursorInvalid      = "READING_CURSOR_INVALID"
	CodeMetricsShapeMismatch      = "METRICS_SHAPE_MISMATCH"
	CodeMetricsInvalidSectorWidth = "METRICS_INVALID_SECTOR_WIDTH"
	CodeSessionMetaInvalid        = "SESSION_META_INVALID"
	CodeSessionIDInvalid          = "SESSION_ID_INVALID"
	CodeSessionStateCorrupt       = "SESSION_STATE_CORRUPT"
	CodeSessionPageTokenInvalid   = "SESSION_PAGE_TOKEN_INVALID"
	CodeNotFound                  = "NOT_FOUND"
)

var enUSMessages = map[Code]string{
	CodeReadingNotNumeric:         "{{.field}} must be numeric",
	CodeReadingUnknownAngle:       "{{.angle}} is not a calibration angle",
	CodeReadingUnknownTransmitter: "unknown transmitter {{.transmitter}}; use tx1 or tx2",
	CodeReadingUnknownStage:       "unknown stage {{.stage}}; use present or reference",
	CodeReadingUnknownField:       "unknown field {{.field}}; use DDM, SDM or RF",
	CodeReadingInvalidZeroSign:    "the 0° DDM sign must be + or -",
	CodeReadingCursorInvalid:      "invalid entry position: {{.reason}}",
	CodeMetricsShapeMismatch:      "{{.stage}} readings have {{.got}} entries, expected {{.want}}",
	CodeMetricsInvalidSectorWidth: "sector half-width must be a positive number of degrees",
	CodeSessionMetaInvalid:        "invalid session details: {{.reason}}",
	CodeSessionIDInvalid:          "invalid session id",
	CodeSessionStateCorrupt:       "the saved session could not be read",
	CodeSessionPageTokenInvalid:   "invalid page token",
	CodeNotFound:                  "{{.resource}} not found",
}
