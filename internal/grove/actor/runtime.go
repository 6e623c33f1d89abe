// Package actor hosts the grove's actor system: a manager routing to per
// player actors and one world actor owning biome writes and chat flushing.
package actor

import (
	"context"
	"errors"
	"sync"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"GroveWorld/internal/grove/actors"
	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/chat"
	"GroveWorld/internal/grove/dc"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/service"
	"GroveWorld/internal/shared/transport"
	"GroveWorld/modules/kit/errx"
	"GroveWorld/modules/kit/logx"
	"GroveWorld/modules/kit/tracex"
)

const (
	defaultAskTimeout = 3 * time.Second
	defaultIdle       = 5 * time.Minute
)

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Options struct {
	// Coordinator options; Biomes and Chat are set by the runtime.
	Service    service.Options
	ChatRepo   port.ChatRepository
	ChatFlush  time.Duration
	AskTimeout time.Duration
	// PlayerIdle stops a player actor after this long without requests.
	PlayerIdle time.Duration
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	world   *protoactor.PID
	coord   *service.Coordinator
	timeout time.Duration
	stop    sync.Once
}

func NewRuntime(opts Options) *Runtime {
	askTimeout := opts.AskTimeout
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}
	idle := opts.PlayerIdle
	if idle <= 0 {
		idle = defaultIdle
	}
	svc := opts.Service
	if svc.Logger == nil {
		svc.Logger = logx.Nop()
	}
	if svc.Chat == nil {
		svc.Chat = chat.NewRing(chat.DefaultCapacity)
	}

	system := protoactor.NewActorSystem()
	root := system.Root

	// The world actor comes first: the coordinator writes the biome through it.
	writer := service.NewCASBiomeWriter(svc.Repo, svc.World, svc.CASRetries, svc.Now)
	var chatDC *dc.ChatDC
	if opts.ChatRepo != nil {
		chatDC = dc.NewChatDC(opts.ChatRepo, svc.World.BiomeID, svc.Chat, opts.ChatFlush, svc.Metrics, svc.Logger)
	}
	worldProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewWorldActor(writer, chatDC, svc.Logger)
	})
	world := root.Spawn(worldProps)

	svc.Biomes = actors.NewWorldWriter(root, world, askTimeout)
	coord := service.NewCoordinator(svc)

	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(coord, idle)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		world:   world,
		coord:   coord,
		timeout: askTimeout,
	}
}

func (r *Runtime) Coordinator() *service.Coordinator {
	return r.coord
}

// Shutdown stops the players first so in-flight biome writes drain, then
// the world actor, which flushes chat on the way out.
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	r.stop.Do(func() {
		if r.root != nil && r.manager != nil {
			_ = r.root.StopFuture(r.manager).Wait()
		}
		if r.root != nil && r.world != nil {
			_ = r.root.StopFuture(r.world).Wait()
		}
		if r.system != nil {
			r.system.Shutdown()
		}
	})
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime not initialized"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid is nil"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := transport.SystemError
		if errors.Is(err, protoactor.ErrTimeout) {
			code = transport.Timeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor request failed",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// Do runs one action for pid through the player's actor. The returned
// error is either a service error or a *RuntimeError.
func (r *Runtime) Do(ctx context.Context, pid entity.PlayerID, a service.Action) (any, error) {
	if a == nil {
		return nil, &RuntimeError{Code: transport.InvalidParam, Message: "action is nil"}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := r.timeoutFromContext(ctx)
	req := &actors.ActionRequest{PlayerID: pid, Action: a}
	req.TraceID, _ = tracex.TraceIDFrom(ctx)
	req.Deadline = time.Now().Add(timeout)

	res, err := r.request(r.manager, req, timeout)
	if err != nil {
		return nil, err
	}
	reply, ok := res.(*actors.ActionReply)
	if !ok {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "unexpected actor reply type"}
	}
	return reply.Result, reply.Err
}

// CodeFromError maps runtime and service errors onto transport biz codes.
func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	var xe *errx.Error
	if !errors.As(err, &xe) {
		return transport.SystemError
	}
	switch xe.Code() {
	case service.CodeBadAction, errx.CodeReqParamError:
		return transport.InvalidParam
	case service.CodeNotFound:
		return transport.NotFound
	case service.CodeWorldFull:
		return transport.WorldFull
	case service.CodeConflict:
		return transport.Retry
	case errx.CodeUnavailable:
		return transport.Unavailable
	case errx.CodeTimeout:
		return transport.Timeout
	case errx.CodeRateLimited, errx.CodeMaintenance:
		return transport.Unavailable
	default:
		return transport.SystemError
	}
}
