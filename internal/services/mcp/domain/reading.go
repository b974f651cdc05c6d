package domain

import (
	"context"
	"fmt"
	"strings"

	calibrationv1 "github.com/louisbranch/llzcal/api/calibration/v1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReadingResult is one stored grid entry. Absent values are null.
type ReadingResult struct {
	Angle float64  `json:"angle" jsonschema:"grid angle in degrees"`
	DDM   *float64 `json:"DDM" jsonschema:"signed difference in depth of modulation"`
	SDM   *float64 `json:"SDM" jsonschema:"sum in depth of modulation"`
	RF    *float64 `json:"RF" jsonschema:"RF level, never positive"`
}

func readingFromProto(r calibrationv1.Reading) ReadingResult {
	return ReadingResult{Angle: r.Angle, DDM: r.DDM, SDM: r.SDM, RF: r.RF}
}

// RecordReadingInput represents the MCP tool input for recording a reading.
type RecordReadingInput struct {
	SessionID   string  `json:"session_id" jsonschema:"session identifier"`
	Transmitter string  `json:"tx" jsonschema:"transmitter (tx1, tx2)"`
	Stage       string  `json:"stage" jsonschema:"stage (present, reference)"`
	Angle       float64 `json:"angle" jsonschema:"grid angle in degrees, between -35 and 35"`
	DDM         string  `json:"DDM,omitempty" jsonschema:"DDM magnitude; the sign follows the angle"`
	SDM         string  `json:"SDM,omitempty" jsonschema:"SDM magnitude"`
	RF          string  `json:"RF,omitempty" jsonschema:"RF magnitude; stored as a negative value"`
	ZeroSign    string  `json:"zero_sign,omitempty" jsonschema:"DDM sign at 0 degrees (+ or -), + by default"`
}

// RecordReadingResult represents the MCP tool output for recording a reading.
type RecordReadingResult struct {
	Reading             ReadingResult `json:"reading" jsonschema:"the normalized reading as stored"`
	StageComplete       bool          `json:"stage_complete" jsonschema:"whether this transmitter finished the stage"`
	StageCompleteForAll bool          `json:"stage_complete_for_all" jsonschema:"whether both transmitters finished the stage"`
	NextStage           string        `json:"next_stage" jsonschema:"stage to continue with once the current one is done"`
}

// RecordReadingTool defines the MCP tool schema for recording a reading.
func RecordReadingTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "record_reading",
		Description: "Records DDM, SDM and RF magnitudes for one transmitter, stage and angle, replacing any previous entry. Blank values are stored as absent.",
	}
}

// RecordReadingHandler executes a record reading request.
func RecordReadingHandler(client calibrationv1.CalibrationServiceClient, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[RecordReadingInput, RecordReadingResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RecordReadingInput) (*mcp.CallToolResult, RecordReadingResult, error) {
		sessionID := strings.TrimSpace(input.SessionID)
		if sessionID == "" {
			return nil, RecordReadingResult{}, fmt.Errorf("session_id is required")
		}
		call, err := newToolCall(ctx)
		if err != nil {
			return nil, RecordReadingResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		defer call.cancel()

		response, err := client.RecordReading(call.ctx, &calibrationv1.RecordReadingRequest{
			SessionID:   sessionID,
			Transmitter: input.Transmitter,
			Stage:       input.Stage,
			Angle:       input.Angle,
			DDM:         input.DDM,
			SDM:         input.SDM,
			RF:          input.RF,
			ZeroSign:    input.ZeroSign,
		})
		if err != nil {
			return nil, RecordReadingResult{}, toolError("record reading", err)
		}

		NotifyResourceUpdates(ctx, notify, SessionURI(sessionID))
		return CallToolResultWithMetadata(call.meta), RecordReadingResult{
			Reading:             readingFromProto(response.Reading),
			StageComplete:       response.StageComplete,
			StageCompleteForAll: response.StageCompleteForAll,
			NextStage:           response.NextStage,
		}, nil
	}
}

// GetSnapshotInput represents the MCP tool input for reading a set.
type GetSnapshotInput struct {
	SessionID   string `json:"session_id" jsonschema:"session identifier"`
	Transmitter string `json:"tx" jsonschema:"transmitter (tx1, tx2)"`
	Stage       string `json:"stage" jsonschema:"stage (present, reference)"`
}

// GetSnapshotResult represents the MCP tool output for reading a set.
type GetSnapshotResult struct {
	Readings []ReadingResult `json:"readings" jsonschema:"readings in grid order from -35 to 35 degrees"`
}

// GetSnapshotTool defines the MCP tool schema for reading a set.
func GetSnapshotTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_snapshot",
		Description: "Returns every reading of one transmitter and stage in grid order.",
	}
}

// GetSnapshotHandler executes a snapshot request.
func GetSnapshotHandler(client calibrationv1.CalibrationServiceClient) mcp.ToolHandlerFor[GetSnapshotInput, GetSnapshotResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetSnapshotInput) (*mcp.CallToolResult, GetSnapshotResult, error) {
		call, err := newToolCall(ctx)
		if err != nil {
			return nil, GetSnapshotResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		defer call.cancel()

		response, err := client.GetSnapshot(call.ctx, &calibrationv1.GetSnapshotRequest{
			SessionID:   strings.TrimSpace(input.SessionID),
			Transmitter: input.Transmitter,
			Stage:       input.Stage,
		})
		if err != nil {
			return nil, GetSnapshotResult{}, toolError("get snapshot", err)
		}

		result := GetSnapshotResult{Readings: make([]ReadingResult, 0, len(response.Readings))}
		for _, r := range response.Readings {
			result.Readings = append(result.Readings, readingFromProto(r))
		}
		return CallToolResultWithMetadata(call.meta), result, nil
	}
}
