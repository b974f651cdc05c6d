package domain

import (
	"context"
	"fmt"
	"strings"

	calibrationv1 "github.com/louisbranch/llzcal/api/calibration/v1"
	"github.com/louisbranch/llzcal/internal/calibration/grid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StageStatusInput represents the MCP tool input for stage progress.
type StageStatusInput struct {
	SessionID string `json:"session_id" jsonschema:"session identifier"`
	Stage     string `json:"stage" jsonschema:"stage (present, reference)"`
}

// StageStatusResult represents the MCP tool output for stage progress.
type StageStatusResult struct {
	Stage          string           `json:"stage" jsonschema:"stage that was checked"`
	Slots          []ProgressResult `json:"slots" jsonschema:"progress of each transmitter"`
	CompleteForAll bool             `json:"complete_for_all" jsonschema:"whether both transmitters finished the stage"`
	NextStage      string           `json:"next_stage" jsonschema:"stage to continue with"`
}

// StageStatusTool defines the MCP tool schema for stage progress.
func StageStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stage_status",
		Description: "Reports how many angles each transmitter has recorded for a stage and whether the stage is finished.",
	}
}

// StageStatusHandler executes a stage status request.
func StageStatusHandler(client calibrationv1.CalibrationServiceClient) mcp.ToolHandlerFor[StageStatusInput, StageStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StageStatusInput) (*mcp.CallToolResult, StageStatusResult, error) {
		call, err := newToolCall(ctx)
		if err != nil {
			return nil, StageStatusResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		defer call.cancel()

		response, err := client.GetStageStatus(call.ctx, &calibrationv1.GetStageStatusRequest{
			SessionID: strings.TrimSpace(input.SessionID),
			Stage:     input.Stage,
		})
		if err != nil {
			return nil, StageStatusResult{}, toolError("stage status", err)
		}
		return CallToolResultWithMetadata(call.meta), StageStatusResult{
			Stage:          response.Stage,
			Slots:          progressFromProto(response.Slots),
			CompleteForAll: response.CompleteForAll,
			NextStage:      response.NextStage,
		}, nil
	}
}

// ComputeMetricsInput represents the MCP tool input for comparing stages.
type ComputeMetricsInput struct {
	SessionID       string  `json:"session_id" jsonschema:"session identifier"`
	Transmitter     string  `json:"tx" jsonschema:"transmitter (tx1, tx2)"`
	SectorHalfWidth float64 `json:"sector_half_width,omitempty" jsonschema:"half-width in degrees of the DDM sector check; service default when omitted"`
}

// DiffPoint is one grid entry of a reference minus present difference.
type DiffPoint struct {
	Angle float64  `json:"angle" jsonschema:"grid angle in degrees"`
	Value *float64 `json:"value" jsonschema:"difference, null when either side is missing"`
}

// ComputeMetricsResult represents the MCP tool output for comparing stages.
// Null values could not be computed from the recorded data.
type ComputeMetricsResult struct {
	Transmitter         string      `json:"tx" jsonschema:"transmitter"`
	DDMDiff             []DiffPoint `json:"ddm_diff" jsonschema:"reference minus present DDM per angle"`
	SDMDiff             []DiffPoint `json:"sdm_diff" jsonschema:"reference minus present SDM per angle"`
	RFDiff              []DiffPoint `json:"rf_diff" jsonschema:"reference minus present RF per angle"`
	CenterlineDeviation *float64    `json:"centerline_deviation" jsonschema:"present minus reference DDM at 0 degrees"`
	SectorHalfWidth     float64     `json:"sector_half_width" jsonschema:"sector half-width used"`
	SectorMaxDDM        *float64    `json:"sector_max_ddm" jsonschema:"largest absolute DDM difference inside the sector"`
	SDMSlopePresent     *float64    `json:"sdm_slope_present" jsonschema:"least squares SDM slope per degree, present"`
	SDMSlopeReference   *float64    `json:"sdm_slope_reference" jsonschema:"least squares SDM slope per degree, reference"`
	DDMAbsMean          *float64    `json:"ddm_abs_mean" jsonschema:"mean absolute DDM difference"`
	DDMAbsMax           *float64    `json:"ddm_abs_max" jsonschema:"max absolute DDM difference"`
	RFAbsMean           *float64    `json:"rf_abs_mean" jsonschema:"mean absolute RF difference"`
	RFAbsMax            *float64    `json:"rf_abs_max" jsonschema:"max absolute RF difference"`
}

// ComputeMetricsTool defines the MCP tool schema for comparing stages.
func ComputeMetricsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "compute_metrics",
		Description: "Compares present against reference readings of one transmitter: per-angle differences, centerline deviation, sector maximum, SDM slopes and absolute statistics.",
	}
}

// ComputeMetricsHandler executes a metrics request.
func ComputeMetricsHandler(client calibrationv1.CalibrationServiceClient) mcp.ToolHandlerFor[ComputeMetricsInput, ComputeMetricsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ComputeMetricsInput) (*mcp.CallToolResult, ComputeMetricsResult, error) {
		call, err := newToolCall(ctx)
		if err != nil {
			return nil, ComputeMetricsResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		defer call.cancel()

		response, err := client.ComputeMetrics(call.ctx, &calibrationv1.ComputeMetricsRequest{
			SessionID:       strings.TrimSpace(input.SessionID),
			Transmitter:     input.Transmitter,
			SectorHalfWidth: input.SectorHalfWidth,
		})
		if err != nil {
			return nil, ComputeMetricsResult{}, toolError("compute metrics", err)
		}

		m := response.Metrics
		return CallToolResultWithMetadata(call.meta), ComputeMetricsResult{
			Transmitter:         m.Transmitter,
			DDMDiff:             diffPoints(m.DDMDiff),
			SDMDiff:             diffPoints(m.SDMDiff),
			RFDiff:              diffPoints(m.RFDiff),
			CenterlineDeviation: m.CenterlineDeviation,
			SectorHalfWidth:     m.SectorHalfWidth,
			SectorMaxDDM:        m.SectorMaxDDM,
			SDMSlopePresent:     m.SDMSlopePresent,
			SDMSlopeReference:   m.SDMSlopeReference,
			DDMAbsMean:          m.DDMAbsMean,
			DDMAbsMax:           m.DDMAbsMax,
			RFAbsMean:           m.RFAbsMean,
			RFAbsMax:            m.RFAbsMax,
		}, nil
	}
}

// diffPoints pairs grid-ordered values with their angles.
func diffPoints(values []*float64) []DiffPoint {
	out := make([]DiffPoint, 0, len(values))
	for i, v := range values {
		angle, ok := grid.At(i)
		if !ok {
			break
		}
		out = append(out, DiffPoint{Angle: angle, Value: v})
	}
	return out
}
