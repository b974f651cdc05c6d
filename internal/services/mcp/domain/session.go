package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	calibrationv1 "github.com/louisbranch/llzcal/api/calibration/v1"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MetaInput is the session metadata accepted by tools.
type MetaInput struct {
	Station       string `json:"station,omitempty" jsonschema:"facility identifier"`
	Frequency     string `json:"frequency,omitempty" jsonschema:"localizer frequency in MHz"`
	Make          string `json:"make,omitempty" jsonschema:"equipment make"`
	Model         string `json:"model,omitempty" jsonschema:"equipment model"`
	ReferenceDate string `json:"reference_date,omitempty" jsonschema:"reference survey date as DD-MM-YYYY"`
	PresentDate   string `json:"present_date,omitempty" jsonschema:"present survey date as DD-MM-YYYY"`
	Course        string `json:"course,omitempty" jsonschema:"runway course"`
}

func (m MetaInput) proto() calibrationv1.Meta {
	return calibrationv1.Meta{
		Station:       m.Station,
		Frequency:     m.Frequency,
		Make:          m.Make,
		Model:         m.Model,
		ReferenceDate: m.ReferenceDate,
		PresentDate:   m.PresentDate,
		Course:        m.Course,
	}
}

func metaFromProto(m calibrationv1.Meta) MetaInput {
	return MetaInput{
		Station:       m.Station,
		Frequency:     m.Frequency,
		Make:          m.Make,
		Model:         m.Model,
		ReferenceDate: m.ReferenceDate,
		PresentDate:   m.PresentDate,
		Course:        m.Course,
	}
}

// ProgressResult reports entry progress of one transmitter/stage set.
type ProgressResult struct {
	Transmitter string `json:"tx" jsonschema:"transmitter (tx1, tx2)"`
	Stage       string `json:"stage" jsonschema:"stage (present, reference)"`
	Touched     int    `json:"touched" jsonschema:"angles with at least one recorded value"`
	Total       int    `json:"total" jsonschema:"angles in the grid"`
	Complete    bool   `json:"complete" jsonschema:"whether every angle was touched"`
}

func progressFromProto(in []calibrationv1.SlotProgress) []ProgressResult {
	out := make([]ProgressResult, 0, len(in))
	for _, p := range in {
		out = append(out, ProgressResult{
			Transmitter: p.Transmitter,
			Stage:       p.Stage,
			Touched:     int(p.Touched),
			Total:       int(p.Total),
			Complete:    p.Complete,
		})
	}
	return out
}

// SessionResult is the tool view of a calibration session.
type SessionResult struct {
	ID       string           `json:"id" jsonschema:"session identifier"`
	Meta     MetaInput        `json:"meta" jsonschema:"session metadata"`
	Progress []ProgressResult `json:"progress" jsonschema:"entry progress per transmitter and stage"`
}

func sessionFromProto(s calibrationv1.Session) SessionResult {
	return SessionResult{
		ID:       s.ID,
		Meta:     metaFromProto(s.Meta),
		Progress: progressFromProto(s.Progress),
	}
}

// SessionURI returns the resource URI of a session.
func SessionURI(sessionID string) string {
	return "session://" + sessionID
}

// CreateSessionInput represents the MCP tool input for creating a session.
type CreateSessionInput struct {
	Meta MetaInput `json:"meta,omitempty" jsonschema:"optional session metadata"`
}

// CreateSessionTool defines the MCP tool schema for creating a session.
func CreateSessionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_session",
		Description: "Creates an empty localizer calibration session and returns its id.",
	}
}

// CreateSessionHandler executes a session create request.
func CreateSessionHandler(client calibrationv1.CalibrationServiceClient) mcp.ToolHandlerFor[CreateSessionInput, SessionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CreateSessionInput) (*mcp.CallToolResult, SessionResult, error) {
		call, err := newToolCall(ctx)
		if err != nil {
			return nil, SessionResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		defer call.cancel()

		response, err := client.CreateSession(call.ctx, &calibrationv1.CreateSessionRequest{Meta: input.Meta.proto()})
		if err != nil {
			return nil, SessionResult{}, toolError("create session", err)
		}
		return CallToolResultWithMetadata(call.meta), sessionFromProto(response.Session), nil
	}
}

// SetMetaInput represents the MCP tool input for replacing session metadata.
type SetMetaInput struct {
	SessionID string    `json:"session_id" jsonschema:"session identifier"`
	Meta      MetaInput `json:"meta" jsonschema:"replacement metadata; omitted fields are cleared"`
}

// SetMetaTool defines the MCP tool schema for replacing session metadata.
func SetMetaTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_meta",
		Description: "Replaces the station, equipment and survey dates of a session. Readings are not changed.",
	}
}

// SetMetaHandler executes a metadata update request.
func SetMetaHandler(client calibrationv1.CalibrationServiceClient, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[SetMetaInput, SessionResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SetMetaInput) (*mcp.CallToolResult, SessionResult, error) {
		sessionID := strings.TrimSpace(input.SessionID)
		if sessionID == "" {
			return nil, SessionResult{}, fmt.Errorf("session_id is required")
		}
		call, err := newToolCall(ctx)
		if err != nil {
			return nil, SessionResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		defer call.cancel()

		response, err := client.UpdateMeta(call.ctx, &calibrationv1.UpdateMetaRequest{
			SessionID: sessionID,
			Meta:      input.Meta.proto(),
		})
		if err != nil {
			return nil, SessionResult{}, toolError("set meta", err)
		}
		NotifyResourceUpdates(ctx, notify, SessionURI(sessionID))
		return CallToolResultWithMetadata(call.meta), sessionFromProto(response.Session), nil
	}
}

// SessionResourceTemplate defines the readable session resource.
func SessionResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "session",
		Title:       "Calibration Session",
		Description: "Metadata, entry cursor and progress of one calibration session",
		MIMEType:    "application/json",
		URITemplate: "session://{session_id}",
	}
}

// SessionResourceHandler reads a session resource.
func SessionResourceHandler(client calibrationv1.CalibrationServiceClient) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil {
			return nil, fmt.Errorf("resource uri is required")
		}
		uri := req.Params.URI
		sessionID, ok := strings.CutPrefix(uri, "session://")
		if !ok || strings.TrimSpace(sessionID) == "" {
			return nil, mcp.ResourceNotFoundError(uri)
		}
		call, err := newToolCall(ctx)
		if err != nil {
			return nil, fmt.Errorf("generate invocation id: %w", err)
		}
		defer call.cancel()

		response, err := client.GetSession(call.ctx, &calibrationv1.GetSessionRequest{SessionID: sessionID})
		if err != nil {
			return nil, toolError("get session", err)
		}
		data, err := json.MarshalIndent(response.Session, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal session: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}
}
