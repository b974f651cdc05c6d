// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Reading errors
	CodeReadingNotNumeric         Code = "READING_NOT_NUMERIC"
	CodeReadingUnknownAngle       Code = "READING_UNKNOWN_ANGLE"
	CodeReadingUnknownTransmitter Code = "READING_UNKNOWN_TRANSMITTER"
	CodeReadingUnknownStage       Code = "READING_UNKNOWN_STAGE"
	CodeReadingUnknownField       Code = "READING_UNKNOWN_FIELD"
	CodeReadingInvalidZeroSign    Code = "READING_INVALID_ZERO_SIGN"
	CodeReadingCursorInvalid      Code = "READING_CURSOR_INVALID"

	// Metrics errors
	CodeMetricsShapeMismatch      Code = "METRICS_SHAPE_MISMATCH"
	CodeMetricsInvalidSectorWidth Code = "METRICS_INVALID_SECTOR_WIDTH"

	// Session errors
	CodeSessionMetaInvalid      Code = "SESSION_META_INVALID"
	CodeSessionIDInvalid        Code = "SESSION_ID_INVALID"
	CodeSessionStateCorrupt     Code = "SESSION_STATE_CORRUPT"
	CodeSessionPageTokenInvalid Code = "SESSION_PAGE_TOKEN_INVALID"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeReadingNotNumeric,
		CodeReadingUnknownAngle,
		CodeReadingUnknownTransmitter,
		CodeReadingUnknownStage,
		CodeReadingUnknownField,
		CodeReadingInvalidZeroSign,
		CodeReadingCursorInvalid,
		CodeMetricsInvalidSectorWidth,
		CodeSessionMetaInvalid,
		CodeSessionIDInvalid,
		CodeSessionPageTokenInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - stored state doesn't allow the operation
	case CodeMetricsShapeMismatch,
		CodeSessionStateCorrupt:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
