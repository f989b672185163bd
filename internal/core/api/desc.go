// internal/core/api/desc.go
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

/*
 * Service descriptor for remap.v1.Transform.
 *
 * The messages are the protobuf well-known Struct and ListValue, so no
 * generated code is needed; the descriptor and client below are what
 * protoc-gen-go-grpc would emit for:
 *
 *   service Transform {
 *     rpc Transform(google.protobuf.Struct) returns (google.protobuf.Struct);
 *     rpc TransformBatch(google.protobuf.ListValue) returns (google.protobuf.ListValue);
 *   }
 */

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "remap.v1.Transform"

// Full method names.
const (
	TransformMethod      = "/" + ServiceName + "/Transform"
	TransformBatchMethod = "/" + ServiceName + "/TransformBatch"
)

// ProgramIDHeader carries the ID of the program that handled a request.
const ProgramIDHeader = "x-remap-program-id"

// TransformServer is the server API for remap.v1.Transform.
type TransformServer interface {
	Transform(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransformBatch(context.Context, *structpb.ListValue) (*structpb.ListValue, error)
}

// RegisterTransformServer registers srv on s.
func RegisterTransformServer(s grpc.ServiceRegistrar, srv TransformServer) {
	s.RegisterService(&TransformServiceDesc, srv)
}

// TransformServiceDesc describes remap.v1.Transform.
var TransformServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TransformServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Transform", Handler: transformHandler},
		{MethodName: "TransformBatch", Handler: transformBatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "remap/v1/transform.proto",
}

func transformHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransformServer).Transform(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TransformMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TransformServer).Transform(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func transformBatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TransformServer).TransformBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: TransformBatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TransformServer).TransformBatch(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

// TransformClient is the client API for remap.v1.Transform.
type TransformClient struct {
	cc grpc.ClientConnInterface
}

// NewTransformClient returns a client over cc.
func NewTransformClient(cc grpc.ClientConnInterface) *TransformClient {
	return &TransformClient{cc: cc}
}

// Transform sends one event.
func (c *TransformClient) Transform(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, TransformMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// TransformBatch sends a list of events.
func (c *TransformClient) TransformBatch(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, TransformBatchMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
