package service

import (
	"fmt"

	calibrationv1 "github.com/louisbranch/llzcal/api/calibration/v1"
	"github.com/louisbranch/llzcal/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
}

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResourceTemplate(resourceTemplate *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(resourceTemplate, handler)
}

// mcpToolRegistrar recovers the typed handler so mcp.AddTool can infer
// input and output schemas.
type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.CreateSessionInput, domain.SessionResult](),
	newMCPToolRegistrar[domain.SetMetaInput, domain.SessionResult](),
	newMCPToolRegistrar[domain.RecordReadingInput, domain.RecordReadingResult](),
	newMCPToolRegistrar[domain.GetSnapshotInput, domain.GetSnapshotResult](),
	newMCPToolRegistrar[domain.StageStatusInput, domain.StageStatusResult](),
	newMCPToolRegistrar[domain.ComputeMetricsInput, domain.ComputeMetricsResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	if server == nil {
		return fmt.Errorf("MCP server is nil")
	}
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	return fmt.Errorf("unsupported handler type %T for tool %q", handler, tool.Name)
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

func registerCalibrationTools(registrar mcpRegistrationTarget, client calibrationv1.CalibrationServiceClient, notify domain.ResourceUpdateNotifier) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.CreateSessionTool(), handler: domain.CreateSessionHandler(client)},
		{tool: domain.SetMetaTool(), handler: domain.SetMetaHandler(client, notify)},
		{tool: domain.RecordReadingTool(), handler: domain.RecordReadingHandler(client, notify)},
		{tool: domain.GetSnapshotTool(), handler: domain.GetSnapshotHandler(client)},
		{tool: domain.StageStatusTool(), handler: domain.StageStatusHandler(client)},
		{tool: domain.ComputeMetricsTool(), handler: domain.ComputeMetricsHandler(client)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerCalibrationResources(registrar mcpRegistrationTarget, client calibrationv1.CalibrationServiceClient) {
	registrar.AddResourceTemplate(domain.SessionResourceTemplate(), domain.SessionResourceHandler(client))
}
