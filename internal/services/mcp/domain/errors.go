package domain

import (
	"fmt"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

// toolError reports a failed gRPC call using the service's localized
// message when one is attached.
func toolError(op string, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	for _, detail := range st.Details() {
		if msg, ok := detail.(*errdetails.LocalizedMessage); ok && msg.GetMessage() != "" {
			return fmt.Errorf("%s failed: %s", op, msg.GetMessage())
		}
	}
	return fmt.Errorf("%s failed: %s", op, st.Message())
}
