package errors

import (
	"fmt"
	"testing"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeReadingNotNumeric, codes.InvalidArgument},
		{CodeReadingUnknownAngle, codes.InvalidArgument},
		{CodeSessionMetaInvalid, codes.InvalidArgument},
		{CodeMetricsShapeMismatch, codes.FailedPrecondition},
		{CodeSessionStateCorrupt, codes.FailedPrecondition},
		{CodeNotFound, codes.NotFound},
		{CodeUnknown, codes.Internal},
	}
	for _, tc := range tests {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestErrorIsMatchesCode(t *testing.T) {
	err := Wrap(CodeNotFound, "session missing", fmt.Errorf("sql: no rows"))
	if !IsCode(fmt.Errorf("load: %w", err), CodeNotFound) {
		t.Fatal("expected wrapped code match")
	}
	if err.Unwrap() == nil {
		t.Fatal("expected cause")
	}
	if GetCode(fmt.Errorf("plain")) != CodeUnknown {
		t.Fatal("expected unknown code for plain error")
	}
}

func TestHandleErrorAttachesDetails(t *testing.T) {
	err := WithMetadata(CodeReadingNotNumeric, "DDM must be numeric", map[string]string{MetadataField: "DDM"})

	st, ok := status.FromError(HandleError(err, ""))
	if !ok {
		t.Fatal("expected grpc status")
	}
	if st.Code() != codes.InvalidArgument {
		t.Fatalf("unexpected code %s", st.Code())
	}

	var info *errdetails.ErrorInfo
	var localized *errdetails.LocalizedMessage
	var badRequest *errdetails.BadRequest
	for _, d := range st.Details() {
		switch v := d.(type) {
		case *errdetails.ErrorInfo:
			info = v
		case *errdetails.LocalizedMessage:
			localized = v
		case *errdetails.BadRequest:
			badRequest = v
		}
	}
	if info == nil || info.GetReason() != string(CodeReadingNotNumeric) || info.GetDomain() != Domain {
		t.Fatalf("unexpected error info %v", info)
	}
	if localized == nil || localized.GetLocale() != DefaultLocale || localized.GetMessage() != "DDM must be numeric" {
		t.Fatalf("unexpected localized message %v", localized)
	}
	if badRequest == nil || badRequest.GetFieldViolations()[0].GetField() != "DDM" {
		t.Fatalf("unexpected bad request %v", badRequest)
	}
}

func TestHandleErrorLocalizes(t *testing.T) {
	err := WithMetadata(CodeNotFound, "session abc not found", map[string]string{"resource": "sessão"})
	st, _ := status.FromError(HandleError(err, "pt-BR"))
	for _, d := range st.Details() {
		if lm, ok := d.(*errdetails.LocalizedMessage); ok {
			if lm.GetLocale() != "pt-BR" || lm.GetMessage() != "sessão não encontrado" {
				t.Fatalf("unexpected localized message %v", lm)
			}
			return
		}
	}
	t.Fatal("expected localized message detail")
}

func TestHandleErrorPassThroughAndUnknown(t *testing.T) {
	if HandleError(nil, "") != nil {
		t.Fatal("expected nil")
	}
	original := status.Error(codes.Unavailable, "down")
	if got := HandleError(original, ""); got != original {
		t.Fatalf("expected status error to pass through, got %v", got)
	}
	st, _ := status.FromError(HandleError(fmt.Errorf("boom"), ""))
	if st.Code() != codes.Internal {
		t.Fatalf("expected internal, got %s", st.Code())
	}
}
