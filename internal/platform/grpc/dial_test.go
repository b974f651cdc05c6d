package grpc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

func TestDialWithHealthSuccess(t *testing.T) {
	addr, _, stop := startHealthServer(t, grpc_health_v1.HealthCheckResponse_SERVING)
	defer stop()

	conn, err := DialWithHealth(context.Background(), addr, DialOptions{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("dial with health: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("close conn: %v", err)
	}
}

func TestDialWithHealthTimeoutBoundsHealthWait(t *testing.T) {
	addr, _, stop := startHealthServer(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	defer stop()

	start := time.Now()
	conn, err := DialWithHealth(context.Background(), addr, DialOptions{Timeout: 150 * time.Millisecond})
	if err == nil {
		_ = conn.Close()
		t.Fatal("expected error")
	}
	if elapsed := time.Since(start); elapsed > 600*time.Millisecond {
		t.Fatalf("expected timeout to bound health check, took %v", elapsed)
	}
	var dialErr *DialError
	if !errors.As(err, &dialErr) || dialErr.Stage != DialStageHealth {
		t.Fatalf("expected health stage error, got %v", err)
	}
}

func TestDialWithHealthConnectStage(t *testing.T) {
	dialer := DialerFunc(func(_ context.Context, _ string, _ ...gogrpc.DialOption) (*gogrpc.ClientConn, error) {
		return nil, fmt.Errorf("dial failure")
	})

	_, err := DialWithHealth(context.Background(), "unused:1", DialOptions{Dialer: dialer})
	var dialErr *DialError
	if !errors.As(err, &dialErr) {
		t.Fatalf("expected DialError, got %T", err)
	}
	if dialErr.Stage != DialStageConnect {
		t.Fatalf("expected stage %q, got %q", DialStageConnect, dialErr.Stage)
	}
	if !strings.Contains(err.Error(), "unused:1") {
		t.Fatalf("expected address in error, got %v", err)
	}
}

func TestDialErrorFormatting(t *testing.T) {
	wrapped := &DialError{Stage: DialStageConnect, Err: fmt.Errorf("boom")}
	if !strings.Contains(wrapped.Error(), "gRPC connect") {
		t.Fatalf("unexpected error: %s", wrapped.Error())
	}
	if wrapped.Unwrap() == nil {
		t.Fatal("expected wrapped error")
	}

	var nilErr *DialError
	if nilErr.Error() == "" {
		t.Fatal("expected fallback error message")
	}
	if nilErr.Unwrap() != nil {
		t.Fatal("expected nil unwrap for nil error")
	}
}

func TestDefaultClientDialOptionsIncludesInterceptors(t *testing.T) {
	if got := len(DefaultClientDialOptions()); got != 4 {
		t.Fatalf("expected 4 default dial options, got %d", got)
	}
}

func TestRequestDeadlineInterceptor(t *testing.T) {
	interceptor := RequestDeadlineInterceptor(time.Second)

	var hadDeadline bool
	invoker := func(ctx context.Context, _ string, _, _ any, _ *gogrpc.ClientConn, _ ...gogrpc.CallOption) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	}
	if err := interceptor(context.Background(), "/m", nil, nil, nil, invoker); err != nil {
		t.Fatalf("intercept: %v", err)
	}
	if !hadDeadline {
		t.Fatal("expected deadline to be applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()
	want, _ := ctx.Deadline()
	invoker = func(ctx context.Context, _ string, _, _ any, _ *gogrpc.ClientConn, _ ...gogrpc.CallOption) error {
		got, _ := ctx.Deadline()
		if !got.Equal(want) {
			t.Fatalf("caller deadline replaced: %v vs %v", got, want)
		}
		return nil
	}
	if err := interceptor(ctx, "/m", nil, nil, nil, invoker); err != nil {
		t.Fatalf("intercept: %v", err)
	}
}
