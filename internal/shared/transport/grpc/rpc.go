package grpc

import (
	"context"
	"fmt"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// WorldService is described by hand over structpb so internal callers
// (bots, admin tools) need no generated stubs:
//
//	service WorldService { rpc Do(google.protobuf.Struct) returns (google.protobuf.Struct); }
const (
	WorldServiceName = "grove.v1.WorldService"
	WorldServiceDo   = "/" + WorldServiceName + "/Do"
)

type WorldServiceServer interface {
	Do(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var WorldServiceDesc = gogrpc.ServiceDesc{
	ServiceName: WorldServiceName,
	HandlerType: (*WorldServiceServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "Do", Handler: worldServiceDoHandler},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "grove/v1/world.proto",
}

func worldServiceDoHandler(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(WorldServiceServer).Do(ctx, in)
	}
	info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: WorldServiceDo}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(WorldServiceServer).Do(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func RegisterWorldServiceServer(s gogrpc.ServiceRegistrar, srv WorldServiceServer) {
	s.RegisterService(&WorldServiceDesc, srv)
}

// NewServer returns a grpc server with trace extraction installed.
func NewServer(opts ...gogrpc.ServerOption) *gogrpc.Server {
	opts = append(opts,
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor()),
		gogrpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	)
	return gogrpc.NewServer(opts...)
}

type WorldServiceClient struct {
	cc gogrpc.ClientConnInterface
}

func NewWorldServiceClient(cc gogrpc.ClientConnInterface) *WorldServiceClient {
	return &WorldServiceClient{cc: cc}
}

func (c *WorldServiceClient) Do(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, WorldServiceDo, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// DialWorldService connects to a grove node and returns a typed client.
func DialWorldService(target string, extra ...gogrpc.DialOption) (*gogrpc.ClientConn, *WorldServiceClient, error) {
	opts := []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
		gogrpc.WithChainStreamInterceptor(StreamClientTraceInterceptor()),
	}
	opts = append(opts, extra...)
	conn, err := gogrpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial world service failed: %w", err)
	}
	return conn, NewWorldServiceClient(conn), nil
}
