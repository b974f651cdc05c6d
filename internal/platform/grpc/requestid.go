package grpc

import (
	"context"
	"strings"

	"github.com/louisbranch/llzcal/internal/platform/id"
	"github.com/louisbranch/llzcal/internal/platform/requestctx"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDMetadataKey carries the caller's request identifier.
const RequestIDMetadataKey = "x-request-id"

// RequestIDUnaryServerInterceptor stores the incoming request identifier in
// the handler context, generating one when the caller sent none.
func RequestIDUnaryServerInterceptor() gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		requestID := incomingRequestID(ctx)
		if requestID == "" {
			if generated, err := id.NewID(); err == nil {
				requestID = generated
			}
		}
		return handler(requestctx.WithRequestID(ctx, requestID), req)
	}
}

func incomingRequestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, value := range md.Get(RequestIDMetadataKey) {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
