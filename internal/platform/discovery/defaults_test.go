package discovery

import "testing"

func TestDefaultGRPCAddr(t *testing.T) {
	if got := DefaultGRPCAddr(ServiceCalibration); got != "localhost:8095" {
		t.Fatalf("DefaultGRPCAddr(calibration) = %q, want localhost:8095", got)
	}
	if got := DefaultGRPCAddr(" calibration "); got != "localhost:8095" {
		t.Fatalf("expected trimmed service name to resolve, got %q", got)
	}
	if got := DefaultGRPCAddr("unknown"); got != "" {
		t.Fatalf("expected empty addr for unknown service, got %q", got)
	}
}

func TestGRPCPort(t *testing.T) {
	if got := GRPCPort(ServiceCalibration); got != 8095 {
		t.Fatalf("GRPCPort(calibration) = %d, want 8095", got)
	}
	if got := GRPCPort("unknown"); got != 0 {
		t.Fatalf("GRPCPort(unknown) = %d, want 0", got)
	}
}

func TestOrDefaultGRPCAddr(t *testing.T) {
	if got := OrDefaultGRPCAddr(" custom:9000 ", ServiceCalibration); got != "custom:9000" {
		t.Fatalf("expected explicit grpc addr to win, got %q", got)
	}
	if got := OrDefaultGRPCAddr("", ServiceCalibration); got != "localhost:8095" {
		t.Fatalf("expected default grpc addr, got %q", got)
	}
}
