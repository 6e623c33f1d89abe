package actors

import (
	"context"
	"time"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/service"
	"GroveWorld/modules/kit/tracex"
)

// ActionRequest carries one player action across the actor boundary.
// Contexts do not cross mailboxes, so the trace id and deadline travel as
// plain values and are rebuilt on the receiving side.
type ActionRequest struct {
	PlayerID entity.PlayerID
	Action   service.Action
	TraceID  string
	Deadline time.Time
}

type ActionReply struct {
	Result any
	Err    error
}

type biomeUpdate struct {
	Fn       service.BiomeMutation
	TraceID  string
	Deadline time.Time
}

type biomeRead struct {
	TraceID  string
	Deadline time.Time
}

type biomeReply struct {
	Biome *entity.Biome
	Err   error
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func carry(ctx context.Context) (string, time.Time) {
	traceID, _ := tracex.TraceIDFrom(ctx)
	deadline, _ := ctx.Deadline()
	return traceID, deadline
}

// restore rebuilds a request context from carried values.
func restore(traceID string, deadline time.Time) (context.Context, context.CancelFunc) {
	ctx := context.Background()
	if traceID != "" {
		ctx = tracex.WithTraceID(ctx, traceID)
	}
	if deadline.IsZero() {
		return context.WithCancel(ctx)
	}
	return context.WithDeadline(ctx, deadline)
}
