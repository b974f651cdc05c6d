// Package service hosts the calibration MCP server and its transports.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	calibrationv1 "github.com/louisbranch/llzcal/api/calibration/v1"
	platformgrpc "github.com/louisbranch/llzcal/internal/platform/grpc"
	"github.com/louisbranch/llzcal/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

const (
	serverName    = "llzcal-mcp"
	serverVersion = "0.1.0"

	// TransportStdio serves MCP over stdin/stdout.
	TransportStdio = "stdio"
)

// Config configures the MCP adapter.
type Config struct {
	// GRPCAddr is the calibration service address.
	GRPCAddr  string
	Transport string
}

// Server exposes calibration tools over MCP, backed by one gRPC connection.
type Server struct {
	mcpServer *mcp.Server
	conn      *grpc.ClientConn
}

// newServer registers every tool and resource against client. conn may be nil
// when the caller owns the connection.
func newServer(client calibrationv1.CalibrationServiceClient, conn *grpc.ClientConn) (*Server, error) {
	if client == nil {
		return nil, fmt.Errorf("calibration client is required")
	}
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})

	notify := func(ctx context.Context, uri string) {
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}
	registrar := mcpServerRegistrationAdapter{server: mcpServer}
	if err := registerCalibrationTools(registrar, client, notify); err != nil {
		return nil, fmt.Errorf("register calibration tools: %w", err)
	}
	registerCalibrationResources(registrar, client)

	return &Server{mcpServer: mcpServer, conn: conn}, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run is the service entrypoint for MCP and blocks until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg.GRPCAddr, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport dials the calibration service and serves MCP over transport.
func runWithTransport(ctx context.Context, addr string, transport mcp.Transport) error {
	conn, err := dialCalibrationGRPC(ctx, addr)
	if err != nil {
		return err
	}
	server, err := newServer(calibrationv1.NewCalibrationServiceClient(conn), conn)
	if err != nil {
		_ = conn.Close()
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

func dialCalibrationGRPC(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := platformgrpc.DialWithHealth(ctx, addr, platformgrpc.DialOptions{
		Timeout:       timeouts.GRPCDial,
		HealthService: calibrationv1.ServiceName,
		Logf: func(format string, args ...any) {
			log.Printf("calibration %s", fmt.Sprintf(format, args...))
		},
	})
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) && dialErr.Stage == platformgrpc.DialStageConnect {
			return nil, fmt.Errorf("connect to calibration server at %s: %w", addr, dialErr.Err)
		}
		return nil, err
	}
	return conn, nil
}

// serveWithTransport runs the MCP server until the transport closes or ctx
// ends, then releases the gRPC connection.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close gRPC connection: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close gRPC connection: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// Close releases the gRPC connection held by the server.
func (s *Server) Close() error {
	if s == nil || s.conn == nil {
		return nil
	}
	if err := s.conn.Close(); err != nil {
		return err
	}
	s.conn = nil
	return nil
}
