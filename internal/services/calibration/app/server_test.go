package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	calibrationv1 "github.com/louisbranch/llzcal/api/calibration/v1"
	platformgrpc "github.com/louisbranch/llzcal/internal/platform/grpc"
)

func startServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	srv, err := New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})
	return srv
}

func TestServer_RecordAndComputeRoundTrip(t *testing.T) {
	srv := startServer(t, Config{
		Addr:        "127.0.0.1:0",
		DBPath:      t.TempDir() + "/calibration.db",
		MetricsAddr: "127.0.0.1:0",
	})

	conn, err := platformgrpc.DialWithHealth(context.Background(), srv.Addr(), platformgrpc.DialOptions{
		HealthService: calibrationv1.ServiceName,
	})
	if err != nil {
		t.Fatalf("dial calibration server: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := conn.Close(); closeErr != nil {
			t.Fatalf("close gRPC connection: %v", closeErr)
		}
	})
	client := calibrationv1.NewCalibrationServiceClient(conn)
	ctx := context.Background()

	created, err := client.CreateSession(ctx, &calibrationv1.CreateSessionRequest{
		Meta: calibrationv1.Meta{Station: "VOBL"},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	sessionID := created.Session.ID

	for _, req := range []calibrationv1.RecordReadingRequest{
		{Stage: "present", DDM: "5", SDM: "3", RF: "2"},
		{Stage: "reference", DDM: "3", SDM: "1", RF: "1"},
	} {
		req.SessionID = sessionID
		req.Transmitter = "tx1"
		req.Angle = -10
		if _, err := client.RecordReading(ctx, &req); err != nil {
			t.Fatalf("record %s: %v", req.Stage, err)
		}
	}

	got, err := client.GetReading(ctx, &calibrationv1.GetReadingRequest{
		SessionID: sessionID, Transmitter: "tx1", Stage: "present", Angle: -10,
	})
	if err != nil {
		t.Fatalf("get reading: %v", err)
	}
	if got.Reading.RF == nil || *got.Reading.RF != -2 {
		t.Fatalf("RF = %v, want -2", got.Reading.RF)
	}

	resp, err := client.ComputeMetrics(ctx, &calibrationv1.ComputeMetricsRequest{SessionID: sessionID, Transmitter: "tx1"})
	if err != nil {
		t.Fatalf("compute metrics: %v", err)
	}
	if resp.Metrics.SectorMaxDDM == nil || *resp.Metrics.SectorMaxDDM != 2 {
		t.Fatalf("sector max = %v, want 2", resp.Metrics.SectorMaxDDM)
	}

	metricsResp, err := http.Get("http://" + srv.MetricsAddr() + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer metricsResp.Body.Close()
	body, err := io.ReadAll(metricsResp.Body)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	for _, name := range []string{"llzcal_readings_recorded_total", "llzcal_grpc_requests_total", "llzcal_metrics_computed_total"} {
		if !strings.Contains(string(body), name) {
			t.Fatalf("metrics output missing %s", name)
		}
	}
}

func TestServer_PersistsAcrossRestart(t *testing.T) {
	dbPath := t.TempDir() + "/calibration.db"
	ctx := context.Background()

	first, err := New(Config{Addr: "127.0.0.1:0", DBPath: dbPath})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- first.Serve(runCtx) }()

	conn, err := platformgrpc.DialWithHealth(ctx, first.Addr(), platformgrpc.DialOptions{})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	client := calibrationv1.NewCalibrationServiceClient(conn)
	created, err := client.CreateSession(ctx, &calibrationv1.CreateSessionRequest{})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := client.RecordReading(ctx, &calibrationv1.RecordReadingRequest{
		SessionID: created.Session.ID, Transmitter: "tx2", Stage: "reference", Angle: 2.5, SDM: "41.5",
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	_ = conn.Close()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("serve: %v", err)
	}

	second := startServer(t, Config{Addr: "127.0.0.1:0", DBPath: dbPath})
	conn, err = platformgrpc.DialWithHealth(ctx, second.Addr(), platformgrpc.DialOptions{})
	if err != nil {
		t.Fatalf("dial restarted server: %v", err)
	}
	defer conn.Close()
	got, err := calibrationv1.NewCalibrationServiceClient(conn).GetReading(ctx, &calibrationv1.GetReadingRequest{
		SessionID: created.Session.ID, Transmitter: "tx2", Stage: "reference", Angle: 2.5,
	})
	if err != nil {
		t.Fatalf("get reading: %v", err)
	}
	if got.Reading.SDM == nil || *got.Reading.SDM != 41.5 {
		t.Fatalf("SDM = %v, want 41.5", got.Reading.SDM)
	}
}

func TestNew_InvalidAddr(t *testing.T) {
	if _, err := New(Config{Addr: "bad-address", DBPath: t.TempDir() + "/calibration.db"}); err == nil {
		t.Fatal("expected listen error")
	}
}
