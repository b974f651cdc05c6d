// Package domain defines the calibration MCP tools and resources and the
// handlers that forward them to the calibration gRPC service.
package domain

import (
	"context"
	"strings"

	platformgrpc "github.com/louisbranch/llzcal/internal/platform/grpc"
	"github.com/louisbranch/llzcal/internal/platform/id"
	"github.com/louisbranch/llzcal/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc/metadata"
)

const (
	// RequestIDHeader carries the per-call request identifier.
	RequestIDHeader = platformgrpc.RequestIDMetadataKey
	// InvocationIDHeader carries the MCP tool invocation identifier.
	InvocationIDHeader = "x-invocation-id"
)

// grpcCallTimeout caps the time for a single gRPC call from an MCP tool handler.
const grpcCallTimeout = timeouts.GRPCRequest

// ToolCallMetadata carries correlation identifiers for MCP tool calls.
type ToolCallMetadata struct {
	RequestID    string
	InvocationID string
}

// ResourceUpdateNotifier notifies MCP clients about resource updates.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// NewInvocationID generates an invocation identifier for a tool call.
func NewInvocationID() (string, error) {
	return id.NewID()
}

// NewOutgoingContext attaches request metadata to a context.
func NewOutgoingContext(ctx context.Context, invocationID string) (context.Context, ToolCallMetadata, error) {
	requestID, err := id.NewID()
	if err != nil {
		return nil, ToolCallMetadata{}, err
	}

	callCtx := metadata.AppendToOutgoingContext(ctx, RequestIDHeader, requestID)
	if invocationID != "" {
		callCtx = metadata.AppendToOutgoingContext(callCtx, InvocationIDHeader, invocationID)
	}
	return callCtx, ToolCallMetadata{RequestID: requestID, InvocationID: invocationID}, nil
}

// CallToolResultWithMetadata builds a tool result with correlation metadata.
func CallToolResultWithMetadata(meta ToolCallMetadata) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Meta: map[string]any{
			RequestIDHeader: meta.RequestID,
		},
	}
	if meta.InvocationID != "" {
		result.Meta[InvocationIDHeader] = meta.InvocationID
	}
	return result
}

// NotifyResourceUpdates sends resource update notifications for each URI provided.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, uri := range uris {
		if strings.TrimSpace(uri) == "" {
			continue
		}
		notify(ctx, uri)
	}
}

// toolCall bundles the per-invocation context of one handler run.
type toolCall struct {
	ctx    context.Context
	meta   ToolCallMetadata
	cancel context.CancelFunc
}

func newToolCall(ctx context.Context) (toolCall, error) {
	invocationID, err := NewInvocationID()
	if err != nil {
		return toolCall{}, err
	}
	runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
	callCtx, meta, err := NewOutgoingContext(runCtx, invocationID)
	if err != nil {
		cancel()
		return toolCall{}, err
	}
	return toolCall{ctx: callCtx, meta: meta, cancel: cancel}, nil
}
