package calibration

import (
	"errors"
	"strconv"

	"github.com/louisbranch/llzcal/internal/calibration/metrics"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
	"github.com/louisbranch/llzcal/internal/calibration/store"
	apperrors "github.com/louisbranch/llzcal/internal/platform/errors"
	"github.com/louisbranch/llzcal/internal/services/calibration/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// readingError maps reading store failures to domain error codes.
func readingError(err error, angle float64) error {
	var validation *reading.ValidationError
	switch {
	case errors.As(err, &validation):
		return apperrors.WrapWithMetadata(apperrors.CodeReadingNotNumeric, validation.Error(),
			map[string]string{apperrors.MetadataField: string(validation.Field)}, err)
	case errors.Is(err, store.ErrUnknownAngle):
		return apperrors.WrapWithMetadata(apperrors.CodeReadingUnknownAngle, err.Error(),
			map[string]string{"angle": strconv.FormatFloat(angle, 'g', -1, 64), apperrors.MetadataField: "angle"}, err)
	case errors.Is(err, store.ErrUnknownTransmitter):
		return apperrors.Wrap(apperrors.CodeReadingUnknownTransmitter, err.Error(), err)
	case errors.Is(err, store.ErrUnknownStage):
		return apperrors.Wrap(apperrors.CodeReadingUnknownStage, err.Error(), err)
	default:
		return err
	}
}

func transmitterError(value string, err error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeReadingUnknownTransmitter, err.Error(),
		map[string]string{"transmitter": value, apperrors.MetadataField: "tx"}, err)
}

func stageError(value string, err error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeReadingUnknownStage, err.Error(),
		map[string]string{"stage": value, apperrors.MetadataField: "stage"}, err)
}

func metaError(err error) error {
	if errors.Is(err, store.ErrInvalidMeta) {
		return apperrors.WrapWithMetadata(apperrors.CodeSessionMetaInvalid, err.Error(),
			map[string]string{"reason": reason(err), apperrors.MetadataField: "meta"}, err)
	}
	return err
}

func cursorError(err error) error {
	if errors.Is(err, store.ErrInvalidMeta) {
		return apperrors.WrapWithMetadata(apperrors.CodeReadingCursorInvalid, err.Error(),
			map[string]string{"reason": reason(err), apperrors.MetadataField: "cursor"}, err)
	}
	return err
}

func shapeError(err error) error {
	var shape *metrics.ShapeError
	if errors.As(err, &shape) {
		return apperrors.WrapWithMetadata(apperrors.CodeMetricsShapeMismatch, shape.Error(), map[string]string{
			"stage": shape.Which,
			"got":   strconv.Itoa(shape.Got),
			"want":  strconv.Itoa(shape.Want),
		}, err)
	}
	return err
}

// storageError maps storage sentinels. A lost optimistic save surfaces as
// Aborted so callers can retry the whole request.
func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.WrapWithMetadata(apperrors.CodeNotFound, "session not found",
			map[string]string{"resource": "session"}, err)
	case errors.Is(err, storage.ErrConflict):
		return status.Error(codes.Aborted, "session was modified concurrently")
	case errors.Is(err, storage.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "session already exists")
	default:
		return err
	}
}

// reason strips the sentinel prefix from a wrapped ErrInvalidMeta.
func reason(err error) string {
	msg := err.Error()
	prefix := store.ErrInvalidMeta.Error() + ": "
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}
