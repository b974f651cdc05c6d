package calibrationv1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified calibration service name.
const ServiceName = "calibration.v1.CalibrationService"

// Full method names.
const (
	MethodCreateSession  = "/" + ServiceName + "/CreateSession"
	MethodGetSession     = "/" + ServiceName + "/GetSession"
	MethodListSessions   = "/" + ServiceName + "/ListSessions"
	MethodDeleteSession  = "/" + ServiceName + "/DeleteSession"
	MethodResetSession   = "/" + ServiceName + "/ResetSession"
	MethodUpdateMeta     = "/" + ServiceName + "/UpdateMeta"
	MethodRecordReading  = "/" + ServiceName + "/RecordReading"
	MethodGetReading     = "/" + ServiceName + "/GetReading"
	MethodGetSnapshot    = "/" + ServiceName + "/GetSnapshot"
	MethodGetStageStatus = "/" + ServiceName + "/GetStageStatus"
	MethodComputeMetrics = "/" + ServiceName + "/ComputeMetrics"
)

// CalibrationServiceServer is the server API for the calibration service.
type CalibrationServiceServer interface {
	CreateSession(context.Context, *CreateSessionRequest) (*CreateSessionResponse, error)
	GetSession(context.Context, *GetSessionRequest) (*GetSessionResponse, error)
	ListSessions(context.Context, *ListSessionsRequest) (*ListSessionsResponse, error)
	DeleteSession(context.Context, *DeleteSessionRequest) (*DeleteSessionResponse, error)
	ResetSession(context.Context, *ResetSessionRequest) (*ResetSessionResponse, error)
	UpdateMeta(context.Context, *UpdateMetaRequest) (*UpdateMetaResponse, error)
	RecordReading(context.Context, *RecordReadingRequest) (*RecordReadingResponse, error)
	GetReading(context.Context, *GetReadingRequest) (*GetReadingResponse, error)
	GetSnapshot(context.Context, *GetSnapshotRequest) (*GetSnapshotResponse, error)
	GetStageStatus(context.Context, *GetStageStatusRequest) (*GetStageStatusResponse, error)
	ComputeMetrics(context.Context, *ComputeMetricsRequest) (*ComputeMetricsResponse, error)
}

// RegisterCalibrationServiceServer registers srv on s.
func RegisterCalibrationServiceServer(s grpc.ServiceRegistrar, srv CalibrationServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary builds a method handler that decodes Req and dispatches to call
// through the server interceptor chain.
func unary[Req, Resp any](method string, call func(CalibrationServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(CalibrationServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes the calibration service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalibrationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateSession", Handler: unary(MethodCreateSession, CalibrationServiceServer.CreateSession)},
		{MethodName: "GetSession", Handler: unary(MethodGetSession, CalibrationServiceServer.GetSession)},
		{MethodName: "ListSessions", Handler: unary(MethodListSessions, CalibrationServiceServer.ListSessions)},
		{MethodName: "DeleteSession", Handler: unary(MethodDeleteSession, CalibrationServiceServer.DeleteSession)},
		{MethodName: "ResetSession", Handler: unary(MethodResetSession, CalibrationServiceServer.ResetSession)},
		{MethodName: "UpdateMeta", Handler: unary(MethodUpdateMeta, CalibrationServiceServer.UpdateMeta)},
		{MethodName: "RecordReading", Handler: unary(MethodRecordReading, CalibrationServiceServer.RecordReading)},
		{MethodName: "GetReading", Handler: unary(MethodGetReading, CalibrationServiceServer.GetReading)},
		{MethodName: "GetSnapshot", Handler: unary(MethodGetSnapshot, CalibrationServiceServer.GetSnapshot)},
		{MethodName: "GetStageStatus", Handler: unary(MethodGetStageStatus, CalibrationServiceServer.GetStageStatus)},
		{MethodName: "ComputeMetrics", Handler: unary(MethodComputeMetrics, CalibrationServiceServer.ComputeMetrics)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calibration/v1",
}

// CalibrationServiceClient is the client API for the calibration service.
type CalibrationServiceClient interface {
	CreateSession(ctx context.Context, in *CreateSessionRequest, opts ...grpc.CallOption) (*CreateSessionResponse, error)
	GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*GetSessionResponse, error)
	ListSessions(ctx context.Context, in *ListSessionsRequest, opts ...grpc.CallOption) (*ListSessionsResponse, error)
	DeleteSession(ctx context.Context, in *DeleteSessionRequest, opts ...grpc.CallOption) (*DeleteSessionResponse, error)
	ResetSession(ctx context.Context, in *ResetSessionRequest, opts ...grpc.CallOption) (*ResetSessionResponse, error)
	UpdateMeta(ctx context.Context, in *UpdateMetaRequest, opts ...grpc.CallOption) (*UpdateMetaResponse, error)
	RecordReading(ctx context.Context, in *RecordReadingRequest, opts ...grpc.CallOption) (*RecordReadingResponse, error)
	GetReading(ctx context.Context, in *GetReadingRequest, opts ...grpc.CallOption) (*GetReadingResponse, error)
	GetSnapshot(ctx context.Context, in *GetSnapshotRequest, opts ...grpc.CallOption) (*GetSnapshotResponse, error)
	GetStageStatus(ctx context.Context, in *GetStageStatusRequest, opts ...grpc.CallOption) (*GetStageStatusResponse, error)
	ComputeMetrics(ctx context.Context, in *ComputeMetricsRequest, opts ...grpc.CallOption) (*ComputeMetricsResponse, error)
}

type calibrationServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCalibrationServiceClient returns a client that sends every call with the
// calibration codec.
func NewCalibrationServiceClient(cc grpc.ClientConnInterface) CalibrationServiceClient {
	return &calibrationServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *calibrationServiceClient) CreateSession(ctx context.Context, in *CreateSessionRequest, opts ...grpc.CallOption) (*CreateSessionResponse, error) {
	return invoke[CreateSessionResponse](ctx, c.cc, MethodCreateSession, in, opts)
}

func (c *calibrationServiceClient) GetSession(ctx context.Context, in *GetSessionRequest, opts ...grpc.CallOption) (*GetSessionResponse, error) {
	return invoke[GetSessionResponse](ctx, c.cc, MethodGetSession, in, opts)
}

func (c *calibrationServiceClient) ListSessions(ctx context.Context, in *ListSessionsRequest, opts ...grpc.CallOption) (*ListSessionsResponse, error) {
	return invoke[ListSessionsResponse](ctx, c.cc, MethodListSessions, in, opts)
}

func (c *calibrationServiceClient) DeleteSession(ctx context.Context, in *DeleteSessionRequest, opts ...grpc.CallOption) (*DeleteSessionResponse, error) {
	return invoke[DeleteSessionResponse](ctx, c.cc, MethodDeleteSession, in, opts)
}

func (c *calibrationServiceClient) ResetSession(ctx context.Context, in *ResetSessionRequest, opts ...grpc.CallOption) (*ResetSessionResponse, error) {
	return invoke[ResetSessionResponse](ctx, c.cc, MethodResetSession, in, opts)
}

func (c *calibrationServiceClient) UpdateMeta(ctx context.Context, in *UpdateMetaRequest, opts ...grpc.CallOption) (*UpdateMetaResponse, error) {
	return invoke[UpdateMetaResponse](ctx, c.cc, MethodUpdateMeta, in, opts)
}

func (c *calibrationServiceClient) RecordReading(ctx context.Context, in *RecordReadingRequest, opts ...grpc.CallOption) (*RecordReadingResponse, error) {
	return invoke[RecordReadingResponse](ctx, c.cc, MethodRecordReading, in, opts)
}

func (c *calibrationServiceClient) GetReading(ctx context.Context, in *GetReadingRequest, opts ...grpc.CallOption) (*GetReadingResponse, error) {
	return invoke[GetReadingResponse](ctx, c.cc, MethodGetReading, in, opts)
}

func (c *calibrationServiceClient) GetSnapshot(ctx context.Context, in *GetSnapshotRequest, opts ...grpc.CallOption) (*GetSnapshotResponse, error) {
	return invoke[GetSnapshotResponse](ctx, c.cc, MethodGetSnapshot, in, opts)
}

func (c *calibrationServiceClient) GetStageStatus(ctx context.Context, in *GetStageStatusRequest, opts ...grpc.CallOption) (*GetStageStatusResponse, error) {
	return invoke[GetStageStatusResponse](ctx, c.cc, MethodGetStageStatus, in, opts)
}

func (c *calibrationServiceClient) ComputeMetrics(ctx context.Context, in *ComputeMetricsRequest, opts ...grpc.CallOption) (*ComputeMetricsResponse, error) {
	return invoke[ComputeMetricsResponse](ctx, c.cc, MethodComputeMetrics, in, opts)
}
