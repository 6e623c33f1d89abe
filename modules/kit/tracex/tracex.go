// Package tracex carries trace and span ids through a context.
package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type ctxKey int

const (
	traceIDKey ctxKey = iota
	spanIDKey
)

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	return lookup(ctx, traceIDKey)
}

func WithSpanID(ctx context.Context, spanID string) context.Context {
	return context.WithValue(ctx, spanIDKey, spanID)
}

func SpanIDFrom(ctx context.Context) (string, bool) {
	return lookup(ctx, spanIDKey)
}

func lookup(ctx context.Context, k ctxKey) (string, bool) {
	s, _ := ctx.Value(k).(string)
	return s, s != ""
}

// EnsureTraceID keeps an existing trace id and otherwise attaches a new one.
// The id is empty only when the random source fails.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if id, ok := TraceIDFrom(ctx); ok {
		return ctx, id
	}
	id := NewTraceID()
	if id == "" {
		return ctx, ""
	}
	return WithTraceID(ctx, id), id
}

// NewTraceID returns a random 16 byte hex trace id.
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
