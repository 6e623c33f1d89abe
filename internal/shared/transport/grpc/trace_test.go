package grpc

import (
	"context"
	"testing"

	"google.golang.org/grpc/metadata"

	"GroveWorld/modules/kit/tracex"
)

func TestExtractTrace_UsesIncomingIDs(t *testing.T) {
	md := metadata.Pairs(traceIDHeader, "trace-1", spanIDHeader, "span-1")
	ctx := extractTraceFromIncoming(metadata.NewIncomingContext(context.Background(), md))

	if got, _ := tracex.TraceIDFrom(ctx); got != "trace-1" {
		t.Fatalf("trace id = %q", got)
	}
	if got, _ := tracex.SpanIDFrom(ctx); got != "span-1" {
		t.Fatalf("span id = %q", got)
	}
}

func TestExtractTrace_MintsMissingTraceID(t *testing.T) {
	ctx := extractTraceFromIncoming(context.Background())
	got, ok := tracex.TraceIDFrom(ctx)
	if !ok || len(got) != 32 {
		t.Fatalf("trace id = %q ok=%v", got, ok)
	}
}

func TestInjectTrace_CopiesIDsToOutgoing(t *testing.T) {
	ctx := tracex.WithTraceID(context.Background(), "trace-2")
	md, _ := metadata.FromOutgoingContext(injectTraceToOutgoing(ctx))
	if v := md.Get(traceIDHeader); len(v) != 1 || v[0] != "trace-2" {
		t.Fatalf("outgoing = %v", md)
	}
}
