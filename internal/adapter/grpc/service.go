package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "bitflation.v1.BitflationService"

// BitflationServiceServer is the server API for the BitflationService.
// Requests and responses are google.protobuf.Struct messages.
type BitflationServiceServer interface {
	GetChart(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetComparison(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CalculateReturns(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetShockStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(BitflationServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc describes the BitflationService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BitflationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetChart", Handler: unaryHandler("GetChart", BitflationServiceServer.GetChart)},
		{MethodName: "GetComparison", Handler: unaryHandler("GetComparison", BitflationServiceServer.GetComparison)},
		{MethodName: "CalculateReturns", Handler: unaryHandler("CalculateReturns", BitflationServiceServer.CalculateReturns)},
		{MethodName: "GetShockStats", Handler: unaryHandler("GetShockStats", BitflationServiceServer.GetShockStats)},
		{MethodName: "GetStatus", Handler: unaryHandler("GetStatus", BitflationServiceServer.GetStatus)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bitflation/v1/bitflation.proto",
}

// RegisterBitflationServiceServer registers srv with the gRPC server
func RegisterBitflationServiceServer(s grpc.ServiceRegistrar, srv BitflationServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryHandler decodes the request Struct and runs call through the server's interceptor chain
func unaryHandler(method string, call unaryCall) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BitflationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(BitflationServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client is a BitflationService client
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client over an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetChart calls BitflationService.GetChart
func (c *Client) GetChart(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetChart", in, opts...)
}

// GetComparison calls BitflationService.GetComparison
func (c *Client) GetComparison(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetComparison", in, opts...)
}

// CalculateReturns calls BitflationService.CalculateReturns
func (c *Client) CalculateReturns(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CalculateReturns", in, opts...)
}

// GetShockStats calls BitflationService.GetShockStats
func (c *Client) GetShockStats(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetShockStats", in, opts...)
}

// GetStatus calls BitflationService.GetStatus
func (c *Client) GetStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetStatus", in, opts...)
}
