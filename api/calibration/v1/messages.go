package calibrationv1

import "time"

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

// Cursor is the operator's position in the entry walk.
type Cursor struct {
	Stage       string  `json:"stage"`
	Transmitter string  `json:"tx,omitempty"`
	Direction   string  `json:"direction"`
	Position    int32   `json:"idx"`
	Angle       float64 `json:"angle"`
}

// Reading is one stored grid entry.
type Reading struct {
	Angle float64  `json:"angle"`
	DDM   *float64 `json:"DDM"`
	SDM   *float64 `json:"SDM"`
	RF    *float64 `json:"RF"`
}

// SlotProgress reports entry progress of one transmitter/stage set.
type SlotProgress struct {
	Transmitter string `json:"tx"`
	Stage       string `json:"stage"`
	Touched     int32  `json:"touched"`
	Total       int32  `json:"total"`
	Complete    bool   `json:"complete"`
}

// Session is the full view of a calibration session.
type Session struct {
	ID        string         `json:"id"`
	Meta      Meta           `json:"meta"`
	Cursor    Cursor         `json:"cursor"`
	Progress  []SlotProgress `json:"progress"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// SessionSummary is one row of ListSessions.
type SessionSummary struct {
	ID        string    `json:"id"`
	Station   string    `json:"station"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Metrics is the present/reference comparison of one transmitter. Nil values
// could not be computed.
type Metrics struct {
	Transmitter         string     `json:"tx"`
	DDMDiff             []*float64 `json:"ddmDiff"`
	SDMDiff             []*float64 `json:"sdmDiff"`
	RFDiff              []*float64 `json:"rfDiff"`
	CenterlineDeviation *float64   `json:"centerlineDeviation"`
	SectorHalfWidth     float64    `json:"sectorHalfWidth"`
	SectorMaxDDM        *float64   `json:"sectorMaxDdm"`
	SDMSlopePresent     *float64   `json:"sdmSlopePresent"`
	SDMSlopeReference   *float64   `json:"sdmSlopeReference"`
	DDMAbsMean          *float64   `json:"ddmAbsMean"`
	DDMAbsMax           *float64   `json:"ddmAbsMax"`
	RFAbsMean           *float64   `json:"rfAbsMean"`
	RFAbsMax            *float64   `json:"rfAbsMax"`
}

type CreateSessionRequest struct {
	Meta Meta `json:"meta"`
}

type CreateSessionResponse struct {
	Session Session `json:"session"`
}

type GetSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type GetSessionResponse struct {
	Session Session `json:"session"`
	// ResetSlots lists stored sets that failed validation on load and were
	// replaced with empty sets, as "tx/stage".
	ResetSlots []string `json:"resetSlots,omitempty"`
}

type ListSessionsRequest struct {
	PageSize  int32  `json:"pageSize"`
	PageToken string `json:"pageToken"`
}

type ListSessionsResponse struct {
	Sessions      []SessionSummary `json:"sessions"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

type DeleteSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type DeleteSessionResponse struct{}

type ResetSessionRequest struct {
	SessionID string `json:"sessionId"`
}

type ResetSessionResponse struct {
	Session Session `json:"session"`
}

// UpdateMetaRequest replaces the session metadata and, when set, the cursor.
type UpdateMetaRequest struct {
	SessionID string  `json:"sessionId"`
	Meta      Meta    `json:"meta"`
	Cursor    *Cursor `json:"cursor,omitempty"`
}

type UpdateMetaResponse struct {
	Session Session `json:"session"`
}

// RecordReadingRequest carries raw magnitude strings; empty means absent.
// ZeroSign ("+" or "-") picks the DDM sign at 0 degrees.
type RecordReadingRequest struct {
	SessionID   string  `json:"sessionId"`
	Transmitter string  `json:"tx"`
	Stage       string  `json:"stage"`
	Angle       float64 `json:"angle"`
	DDM         string  `json:"DDM"`
	SDM         string  `json:"SDM"`
	RF          string  `json:"RF"`
	ZeroSign    string  `json:"zeroSign,omitempty"`
}

type RecordReadingResponse struct {
	Reading             Reading `json:"reading"`
	StageComplete       bool    `json:"stageComplete"`
	StageCompleteForAll bool    `json:"stageCompleteForAll"`
	NextStage           string  `json:"nextStage"`
}

type GetReadingRequest struct {
	SessionID   string  `json:"sessionId"`
	Transmitter string  `json:"tx"`
	Stage       string  `json:"stage"`
	Angle       float64 `json:"angle"`
}

type GetReadingResponse struct {
	Reading Reading `json:"reading"`
}

type GetSnapshotRequest struct {
	SessionID   string `json:"sessionId"`
	Transmitter string `json:"tx"`
	Stage       string `json:"stage"`
}

type GetSnapshotResponse struct {
	Readings []Reading `json:"readings"`
}

type GetStageStatusRequest struct {
	SessionID string `json:"sessionId"`
	Stage     string `json:"stage"`
}

type GetStageStatusResponse struct {
	Stage          string         `json:"stage"`
	Slots          []SlotProgress `json:"slots"`
	CompleteForAll bool           `json:"completeForAll"`
	NextStage      string         `json:"nextStage"`
}

// ComputeMetricsRequest asks for one transmitter's comparison. A zero
// SectorHalfWidth uses the service default.
type ComputeMetricsRequest struct {
	SessionID       string  `json:"sessionId"`
	Transmitter     string  `json:"tx"`
	SectorHalfWidth float64 `json:"sectorHalfWidth,omitempty"`
}

type ComputeMetricsResponse struct {
	Metrics Metrics `json:"metrics"`
}
