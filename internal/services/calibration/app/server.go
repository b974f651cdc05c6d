// Package server wires the calibration runtime and gRPC lifecycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	calibrationv1 "github.com/louisbranch/llzcal/api/calibration/v1"
	platformgrpc "github.com/louisbranch/llzcal/internal/platform/grpc"
	"github.com/louisbranch/llzcal/internal/platform/telemetry/metrics"
	"github.com/louisbranch/llzcal/internal/platform/timeouts"
	calibrationservice "github.com/louisbranch/llzcal/internal/services/calibration/api/grpc/calibration"
	calibrationsqlite "github.com/louisbranch/llzcal/internal/services/calibration/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Config configures one calibration server.
type Config struct {
	// Addr is the gRPC listen address, e.g. ":8095".
	Addr   string
	DBPath string
	// MetricsAddr serves Prometheus metrics over HTTP when non-empty.
	MetricsAddr     string
	SectorHalfWidth float64
	Locale          string
}

// Server hosts the calibration gRPC API and storage lifecycle.
type Server struct {
	listener        net.Listener
	grpcServer      *grpc.Server
	health          *health.Server
	store           *calibrationsqlite.Store
	metricsListener net.Listener
	metricsServer   *http.Server
}

// New creates a configured calibration server.
func New(cfg Config) (*Server, error) {
	dbPath := strings.TrimSpace(cfg.DBPath)
	if dbPath == "" {
		dbPath = filepath.Join("data", "calibration.db")
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}
	store, err := openCalibrationStore(dbPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	recorder := metrics.New()
	srv := &Server{listener: listener, store: store}
	if addr := strings.TrimSpace(cfg.MetricsAddr); addr != "" {
		metricsListener, err := net.Listen("tcp", addr)
		if err != nil {
			srv.Close()
			return nil, fmt.Errorf("listen metrics on %s: %w", addr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", recorder.Handler())
		srv.metricsListener = metricsListener
		srv.metricsServer = &http.Server{Handler: mux, ReadHeaderTimeout: timeouts.ReadHeader}
	}

	opts := []calibrationservice.Option{
		calibrationservice.WithRecorder(recorder),
		calibrationservice.WithLocale(cfg.Locale),
	}
	if cfg.SectorHalfWidth != 0 {
		opts = append(opts, calibrationservice.WithSectorHalfWidth(cfg.SectorHalfWidth))
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			platformgrpc.RequestIDUnaryServerInterceptor(),
			recorder.UnaryServerInterceptor(),
		),
	)
	healthServer := health.NewServer()
	calibrationv1.RegisterCalibrationServiceServer(grpcServer, calibrationservice.NewService(store, opts...))
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(calibrationv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	srv.grpcServer = grpcServer
	srv.health = healthServer
	return srv, nil
}

// Addr returns the gRPC listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// MetricsAddr returns the metrics listener address, or "" when disabled.
func (s *Server) MetricsAddr() string {
	if s == nil || s.metricsListener == nil {
		return ""
	}
	return s.metricsListener.Addr().String()
}

// Run creates and serves a calibration server until context cancellation.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the gRPC server, and the metrics endpoint when configured,
// until context cancellation.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.Close()

	if s.metricsServer != nil {
		log.Printf("metrics listening at %v", s.metricsListener.Addr())
		go func() {
			if err := s.metricsServer.Serve(s.metricsListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("serve metrics: %v", err)
			}
		}()
	}

	log.Printf("calibration server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		if s.health != nil {
			s.health.Shutdown()
		}
		s.shutdownMetrics()
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}

func (s *Server) shutdownMetrics() {
	if s.metricsServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := s.metricsServer.Shutdown(ctx); err != nil {
		log.Printf("shutdown metrics: %v", err)
	}
}

// Close releases calibration server resources.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.health != nil {
		s.health.Shutdown()
	}
	if s.grpcServer != nil {
		s.grpcServer.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}
	if s.metricsServer != nil {
		_ = s.metricsServer.Close()
	}
	if s.metricsListener != nil {
		_ = s.metricsListener.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close calibration store: %v", err)
		}
	}
}

func openCalibrationStore(path string) (*calibrationsqlite.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := calibrationsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calibration sqlite store: %w", err)
	}
	return store, nil
}
