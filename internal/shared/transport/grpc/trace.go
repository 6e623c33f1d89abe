package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"GroveWorld/modules/kit/tracex"
)

const (
	traceIDHeader = "x-trace-id"
	spanIDHeader  = "x-span-id"
)

// UnaryClientTraceInterceptor copies trace/span ids into outgoing metadata.
func UnaryClientTraceInterceptor() gogrpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *gogrpc.ClientConn,
		invoker gogrpc.UnaryInvoker,
		opts ...gogrpc.CallOption,
	) error {
		return invoker(injectTraceToOutgoing(ctx), method, req, reply, cc, opts...)
	}
}

func StreamClientTraceInterceptor() gogrpc.StreamClientInterceptor {
	return func(
		ctx context.Context,
		desc *gogrpc.StreamDesc,
		cc *gogrpc.ClientConn,
		method string,
		streamer gogrpc.Streamer,
		opts ...gogrpc.CallOption,
	) (gogrpc.ClientStream, error) {
		return streamer(injectTraceToOutgoing(ctx), desc, cc, method, opts...)
	}
}

// UnaryServerTraceInterceptor restores trace/span ids from incoming metadata,
// minting a trace id when the caller sent none.
func UnaryServerTraceInterceptor() gogrpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *gogrpc.UnaryServerInfo,
		handler gogrpc.UnaryHandler,
	) (any, error) {
		return handler(extractTraceFromIncoming(ctx), req)
	}
}

func StreamServerTraceInterceptor() gogrpc.StreamServerInterceptor {
	return func(
		srv any,
		ss gogrpc.ServerStream,
		info *gogrpc.StreamServerInfo,
		handler gogrpc.StreamHandler,
	) error {
		ctx := extractTraceFromIncoming(ss.Context())
		return handler(srv, &wrappedServerStream{
			ServerStream: ss,
			ctx:          ctx,
		})
	}
}

type wrappedServerStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

func injectTraceToOutgoing(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if traceID, ok := tracex.TraceIDFrom(ctx); ok {
		ctx = metadata.AppendToOutgoingContext(ctx, traceIDHeader, traceID)
	}
	if spanID, ok := tracex.SpanIDFrom(ctx); ok {
		ctx = metadata.AppendToOutgoingContext(ctx, spanIDHeader, spanID)
	}
	return ctx
}

func extractTraceFromIncoming(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	md, _ := metadata.FromIncomingContext(ctx)
	if values := md.Get(traceIDHeader); len(values) > 0 && values[0] != "" {
		ctx = tracex.WithTraceID(ctx, values[0])
	}
	ctx, _ = tracex.EnsureTraceID(ctx)
	if values := md.Get(spanIDHeader); len(values) > 0 && values[0] != "" {
		ctx = tracex.WithSpanID(ctx, values[0])
	}
	return ctx
}
