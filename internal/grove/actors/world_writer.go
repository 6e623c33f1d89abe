package actors

import (
	"context"
	"errors"
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/service"
)

const defaultAskTimeout = 3 * time.Second

// WorldWriter hands biome mutations to the world actor, so every write to
// the shared biome in this process is serialized through one mailbox.
type WorldWriter struct {
	root    *actor.RootContext
	pid     *actor.PID
	timeout time.Duration
}

func NewWorldWriter(root *actor.RootContext, pid *actor.PID, timeout time.Duration) *WorldWriter {
	if timeout <= 0 {
		timeout = defaultAskTimeout
	}
	return &WorldWriter{root: root, pid: pid, timeout: timeout}
}

func (w *WorldWriter) Biome(ctx context.Context) (*entity.Biome, error) {
	traceID, deadline := carry(ctx)
	return w.ask(ctx, &biomeRead{TraceID: traceID, Deadline: deadline})
}

func (w *WorldWriter) UpdateBiome(ctx context.Context, fn service.BiomeMutation) (*entity.Biome, error) {
	traceID, deadline := carry(ctx)
	return w.ask(ctx, &biomeUpdate{Fn: fn, TraceID: traceID, Deadline: deadline})
}

func (w *WorldWriter) ask(ctx context.Context, msg any) (*entity.Biome, error) {
	res, err := w.root.RequestFuture(w.pid, msg, askTimeout(ctx, w.timeout)).Result()
	if err != nil {
		if errors.Is(err, actor.ErrTimeout) {
			return nil, service.ErrTimeout.WithCause(err)
		}
		return nil, service.ErrUnavailable.WithCause(err)
	}
	reply, ok := res.(*biomeReply)
	if !ok {
		return nil, service.ErrUnavailable.WithData("reply", "unexpected type")
	}
	return reply.Biome, reply.Err
}

// askTimeout bounds the wait by the caller's deadline.
func askTimeout(ctx context.Context, fallback time.Duration) time.Duration {
	if ctx == nil {
		return fallback
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return fallback
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < fallback {
		return remain
	}
	return fallback
}
