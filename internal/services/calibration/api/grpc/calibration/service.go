// Package calibration serves the calibration.v1 gRPC API over stored sessions.
package calibration

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	calibrationv1 "github.com/louisbranch/llzcal/api/calibration/v1"
	"github.com/louisbranch/llzcal/internal/calibration/metrics"
	"github.com/louisbranch/llzcal/internal/calibration/reading"
	"github.com/louisbranch/llzcal/internal/calibration/store"
	apperrors "github.com/louisbranch/llzcal/internal/platform/errors"
	"github.com/louisbranch/llzcal/internal/platform/grpc/pagination"
	"github.com/louisbranch/llzcal/internal/platform/id"
	"github.com/louisbranch/llzcal/internal/platform/otel"
	"github.com/louisbranch/llzcal/internal/platform/requestctx"
	telemetry "github.com/louisbranch/llzcal/internal/platform/telemetry/metrics"
	"github.com/louisbranch/llzcal/internal/services/calibration/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	defaultListSessionsPageSize = 10
	maxListSessionsPageSize     = 50
)

// LocaleMetadataKey selects the language of error messages for one call.
const LocaleMetadataKey = "accept-language"

// Service exposes calibration.v1 gRPC operations. Every mutation loads the
// session state, applies it to a reading store and saves it before replying.
type Service struct {
	store           storage.SessionStore
	clock           func() time.Time
	newID           func() (string, error)
	recorder        *telemetry.Recorder
	sectorHalfWidth float64
	locale          string

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithIDGenerator overrides session ID generation.
func WithIDGenerator(newID func() (string, error)) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithRecorder reports domain counters to recorder.
func WithRecorder(recorder *telemetry.Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// WithSectorHalfWidth sets the default sector used by ComputeMetrics.
func WithSectorHalfWidth(degrees float64) Option {
	return func(s *Service) {
		s.sectorHalfWidth = degrees
	}
}

// WithLocale sets the fallback locale for error messages.
func WithLocale(locale string) Option {
	return func(s *Service) {
		s.locale = locale
	}
}

// NewService creates a calibration service backed by session storage.
func NewService(sessions storage.SessionStore, opts ...Option) *Service {
	s := &Service{
		store:           sessions,
		clock:           time.Now,
		newID:           id.NewID,
		sectorHalfWidth: metrics.DefaultSectorHalfWidth,
		locale:          apperrors.DefaultLocale,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func (s *Service) ready() error {
	if s == nil || s.store == nil {
		return status.Error(codes.Internal, "session store is not configured")
	}
	return nil
}

// fail converts err to a gRPC status in the caller's locale and counts
// rejected readings.
func (s *Service) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	code := apperrors.GetCode(err)
	if strings.HasPrefix(string(code), "READING_") {
		s.recorder.ReadingRejected(string(code))
	}
	if _, isStatus := status.FromError(err); code == apperrors.CodeUnknown && !isStatus {
		log.Printf("calibration request %s failed: %v", requestctx.RequestIDFromContext(ctx), err)
	}
	return apperrors.HandleError(err, s.localeFor(ctx))
}

func (s *Service) localeFor(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		for _, value := range md.Get(LocaleMetadataKey) {
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return s.locale
}

func startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return otel.Tracer().Start(ctx, "calibration."+name,
		trace.WithAttributes(
			attribute.String("llzcal.session_id", sessionID),
			attribute.String("llzcal.request_id", requestctx.RequestIDFromContext(ctx)),
		))
}

// load reads one session and decodes its reading store. Sets that failed
// validation come back reset and are listed in the returned slots.
func (s *Service) load(ctx context.Context, sessionID string) (storage.Session, *store.Store, []store.Slot, error) {
	sessionID = strings.TrimSpace(sessionID)
	if !id.Valid(sessionID) {
		return storage.Session{}, nil, nil, apperrors.New(apperrors.CodeSessionIDInvalid, "invalid session id")
	}
	record, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return storage.Session{}, nil, nil, storageError(err)
	}
	st, reset, err := store.Load(record.State)
	if err != nil {
		return storage.Session{}, nil, nil, apperrors.Wrap(apperrors.CodeSessionStateCorrupt, "decode session state", err)
	}
	s.recorder.SetsReset(len(reset))
	return record, st, reset, nil
}

// mutate applies fn to the session's reading store and saves the result.
// Nothing is saved when fn fails.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func(*store.Store) error) (storage.Session, *store.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, st, _, err := s.load(ctx, sessionID)
	if err != nil {
		return storage.Session{}, nil, err
	}
	if err := fn(st); err != nil {
		return storage.Session{}, nil, err
	}
	saved, err := s.save(ctx, record, st)
	if err != nil {
		return storage.Session{}, nil, err
	}
	return saved, st, nil
}

func (s *Service) save(ctx context.Context, record storage.Session, st *store.Store) (storage.Session, error) {
	state, err := json.Marshal(st)
	if err != nil {
		return storage.Session{}, fmt.Errorf("encode session state: %w", err)
	}
	record.State = state
	record.Station = st.Meta().Station
	record.UpdatedAt = s.now()
	saved, err := s.store.SaveSession(ctx, record)
	if err != nil {
		return storage.Session{}, storageError(err)
	}
	return saved, nil
}

// CreateSession starts an empty session with the given metadata.
func (s *Service) CreateSession(ctx context.Context, in *calibrationv1.CreateSessionRequest) (*calibrationv1.CreateSessionResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "create session request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "CreateSession", "")
	defer span.End()

	st := store.New()
	if err := st.SetMeta(metaFromProto(in.Meta)); err != nil {
		return nil, s.fail(ctx, span, metaError(err))
	}
	sessionID, err := s.newID()
	if err != nil {
		return nil, s.fail(ctx, span, fmt.Errorf("generate session id: %w", err))
	}
	state, err := json.Marshal(st)
	if err != nil {
		return nil, s.fail(ctx, span, fmt.Errorf("encode session state: %w", err))
	}
	now := s.now()
	record := storage.Session{
		ID:        sessionID,
		Station:   st.Meta().Station,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSession(ctx, record); err != nil {
		return nil, s.fail(ctx, span, storageError(err))
	}
	span.SetAttributes(attribute.String("llzcal.session_id", sessionID))
	return &calibrationv1.CreateSessionResponse{Session: sessionToProto(record, st)}, nil
}

// GetSession returns the metadata, cursor and progress of one session.
func (s *Service) GetSession(ctx context.Context, in *calibrationv1.GetSessionRequest) (*calibrationv1.GetSessionResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get session request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "GetSession", in.SessionID)
	defer span.End()

	record, st, reset, err := s.load(ctx, in.SessionID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	resp := &calibrationv1.GetSessionResponse{Session: sessionToProto(record, st)}
	for _, slot := range reset {
		resp.ResetSlots = append(resp.ResetSlots, slot.String())
	}
	return resp, nil
}

// ListSessions returns a page of sessions ordered by ID, oldest first.
func (s *Service) ListSessions(ctx context.Context, in *calibrationv1.ListSessionsRequest) (*calibrationv1.ListSessionsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "list sessions request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "ListSessions", "")
	defer span.End()

	pageSize := pagination.ClampPageSize(in.PageSize, pagination.PageSizeConfig{
		Default: defaultListSessionsPageSize,
		Max:     maxListSessionsPageSize,
	})
	pageToken, err := pagination.NormalizePageToken(in.PageToken, id.Valid)
	if err != nil {
		return nil, s.fail(ctx, span, apperrors.Wrap(apperrors.CodeSessionPageTokenInvalid, "invalid page token", err))
	}
	page, err := s.store.ListSessions(ctx, pageSize, pageToken)
	if err != nil {
		return nil, s.fail(ctx, span, storageError(err))
	}

	resp := &calibrationv1.ListSessionsResponse{
		Sessions:      make([]calibrationv1.SessionSummary, 0, len(page.Sessions)),
		NextPageToken: page.NextPageToken,
	}
	for _, record := range page.Sessions {
		resp.Sessions = append(resp.Sessions, calibrationv1.SessionSummary{
			ID:        record.ID,
			Station:   record.Station,
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		})
	}
	return resp, nil
}

// DeleteSession removes a session and all of its readings.
func (s *Service) DeleteSession(ctx context.Context, in *calibrationv1.DeleteSessionRequest) (*calibrationv1.DeleteSessionResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "delete session request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "DeleteSession", in.SessionID)
	defer span.End()

	sessionID := strings.TrimSpace(in.SessionID)
	if !id.Valid(sessionID) {
		return nil, s.fail(ctx, span, apperrors.New(apperrors.CodeSessionIDInvalid, "invalid session id"))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return nil, s.fail(ctx, span, storageError(err))
	}
	return &calibrationv1.DeleteSessionResponse{}, nil
}

// ResetSession clears every reading, the metadata and the cursor.
func (s *Service) ResetSession(ctx context.Context, in *calibrationv1.ResetSessionRequest) (*calibrationv1.ResetSessionResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "reset session request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "ResetSession", in.SessionID)
	defer span.End()

	record, st, err := s.mutate(ctx, in.SessionID, func(st *store.Store) error {
		st.Reset()
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	return &calibrationv1.ResetSessionResponse{Session: sessionToProto(record, st)}, nil
}

// UpdateMeta replaces the session metadata and, when given, the cursor.
// Readings are never touched.
func (s *Service) UpdateMeta(ctx context.Context, in *calibrationv1.UpdateMetaRequest) (*calibrationv1.UpdateMetaResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "update meta request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "UpdateMeta", in.SessionID)
	defer span.End()

	var cursor *store.Cursor
	if in.Cursor != nil {
		c, err := cursorFromProto(*in.Cursor)
		if err != nil {
			return nil, s.fail(ctx, span, err)
		}
		cursor = &c
	}
	record, st, err := s.mutate(ctx, in.SessionID, func(st *store.Store) error {
		if err := st.SetMeta(metaFromProto(in.Meta)); err != nil {
			return metaError(err)
		}
		if cursor != nil {
			if err := st.SetCursor(*cursor); err != nil {
				return cursorError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	return &calibrationv1.UpdateMetaResponse{Session: sessionToProto(record, st)}, nil
}

// RecordReading normalizes and stores one reading, replacing any previous
// reading at that angle.
func (s *Service) RecordReading(ctx context.Context, in *calibrationv1.RecordReadingRequest) (*calibrationv1.RecordReadingResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "record reading request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "RecordReading", in.SessionID)
	defer span.End()

	tx, stage, err := parseSlot(in.Transmitter, in.Stage)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	sign, err := reading.ParseSign(in.ZeroSign)
	if err != nil {
		return nil, s.fail(ctx, span, apperrors.Wrap(apperrors.CodeReadingInvalidZeroSign, "invalid zero sign", err))
	}
	span.SetAttributes(
		attribute.String("llzcal.transmitter", string(tx)),
		attribute.String("llzcal.stage", string(stage)),
		attribute.Float64("llzcal.angle", in.Angle),
	)

	input := reading.Input{DDM: in.DDM, SDM: in.SDM, RF: in.RF, ZeroSign: sign}
	var recorded reading.Reading
	_, st, err := s.mutate(ctx, in.SessionID, func(st *store.Store) error {
		if err := st.RecordReading(tx, stage, in.Angle, input); err != nil {
			return readingError(err, in.Angle)
		}
		r, err := st.Reading(tx, stage, in.Angle)
		if err != nil {
			return readingError(err, in.Angle)
		}
		recorded = r
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	s.recorder.ReadingRecorded(string(tx), string(stage))

	return &calibrationv1.RecordReadingResponse{
		Reading:             readingToProto(in.Angle, recorded),
		StageComplete:       st.IsStageComplete(tx, stage),
		StageCompleteForAll: st.StageCompleteForAll(stage),
		NextStage:           string(stage.Next()),
	}, nil
}

// GetReading returns the reading stored at one angle.
func (s *Service) GetReading(ctx context.Context, in *calibrationv1.GetReadingRequest) (*calibrationv1.GetReadingResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get reading request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "GetReading", in.SessionID)
	defer span.End()

	tx, stage, err := parseSlot(in.Transmitter, in.Stage)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	_, st, _, err := s.load(ctx, in.SessionID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	r, err := st.Reading(tx, stage, in.Angle)
	if err != nil {
		return nil, s.fail(ctx, span, readingError(err, in.Angle))
	}
	return &calibrationv1.GetReadingResponse{Reading: readingToProto(in.Angle, r)}, nil
}

// GetSnapshot returns one reading set in grid order.
func (s *Service) GetSnapshot(ctx context.Context, in *calibrationv1.GetSnapshotRequest) (*calibrationv1.GetSnapshotResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get snapshot request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "GetSnapshot", in.SessionID)
	defer span.End()

	tx, stage, err := parseSlot(in.Transmitter, in.Stage)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	_, st, _, err := s.load(ctx, in.SessionID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	set, err := st.Snapshot(tx, stage)
	if err != nil {
		return nil, s.fail(ctx, span, readingError(err, 0))
	}
	return &calibrationv1.GetSnapshotResponse{Readings: setToProto(set)}, nil
}

// GetStageStatus reports progress of both transmitters for one stage.
func (s *Service) GetStageStatus(ctx context.Context, in *calibrationv1.GetStageStatusRequest) (*calibrationv1.GetStageStatusResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "get stage status request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "GetStageStatus", in.SessionID)
	defer span.End()

	stage, err := reading.ParseStage(in.Stage)
	if err != nil {
		return nil, s.fail(ctx, span, stageError(in.Stage, err))
	}
	_, st, _, err := s.load(ctx, in.SessionID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}

	resp := &calibrationv1.GetStageStatusResponse{
		Stage:          string(stage),
		CompleteForAll: st.StageCompleteForAll(stage),
		NextStage:      string(stage.Next()),
	}
	for _, tx := range reading.Transmitters() {
		resp.Slots = append(resp.Slots, progressToProto(st, store.Slot{Transmitter: tx, Stage: stage}))
	}
	return resp, nil
}

// ComputeMetrics compares present against reference readings of one
// transmitter.
func (s *Service) ComputeMetrics(ctx context.Context, in *calibrationv1.ComputeMetricsRequest) (*calibrationv1.ComputeMetricsResponse, error) {
	if in == nil {
		return nil, status.Error(codes.InvalidArgument, "compute metrics request is required")
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	ctx, span := startSpan(ctx, "ComputeMetrics", in.SessionID)
	defer span.End()

	tx, err := reading.ParseTransmitter(in.Transmitter)
	if err != nil {
		return nil, s.fail(ctx, span, transmitterError(in.Transmitter, err))
	}
	halfWidth := in.SectorHalfWidth
	if halfWidth == 0 {
		halfWidth = s.sectorHalfWidth
	}
	if !(halfWidth > 0) {
		return nil, s.fail(ctx, span, apperrors.New(apperrors.CodeMetricsInvalidSectorWidth, "sector half-width must be positive"))
	}

	_, st, _, err := s.load(ctx, in.SessionID)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	present, err := st.Snapshot(tx, reading.StagePresent)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	reference, err := st.Snapshot(tx, reading.StageReference)
	if err != nil {
		return nil, s.fail(ctx, span, err)
	}
	m, err := metrics.Compute(present, reference, metrics.WithSectorHalfWidth(halfWidth))
	if err != nil {
		return nil, s.fail(ctx, span, shapeError(err))
	}
	s.recorder.MetricsComputed(string(tx))
	return &calibrationv1.ComputeMetricsResponse{Metrics: metricsToProto(tx, m)}, nil
}

func parseSlot(transmitter, stageValue string) (reading.Transmitter, reading.Stage, error) {
	tx, err := reading.ParseTransmitter(transmitter)
	if err != nil {
		return "", "", transmitterError(transmitter, err)
	}
	stage, err := reading.ParseStage(stageValue)
	if err != nil {
		return "", "", stageError(stageValue, err)
	}
	return tx, stage, nil
}

var _ calibrationv1.CalibrationServiceServer = (*Service)(nil)
