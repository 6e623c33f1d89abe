package actors

import (
	"context"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"GroveWorld/internal/grove/dc"
	"GroveWorld/internal/grove/service"
	"GroveWorld/modules/kit/logx"
)

const closeTimeout = 3 * time.Second

// WorldActor is the single writer of the biome record in this process and
// owns the chat ring's write-behind cache.
type WorldActor struct {
	state     State
	writer    *service.CASBiomeWriter
	chat      *dc.ChatDC
	log       logx.Logger
	flushStop chan struct{}
}

func NewWorldActor(writer *service.CASBiomeWriter, chat *dc.ChatDC, l logx.Logger) *WorldActor {
	if l == nil {
		l = logx.Nop()
	}
	return &WorldActor{
		state:  None,
		writer: writer,
		chat:   chat,
		log:    l,
	}
}

func (w *WorldActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		w.state = Init
		w.init(ctx)
	case *actor.Stopping:
		w.stopFlushLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if w.chat != nil {
			if err := w.chat.Close(closeCtx); err != nil {
				w.log.Error("chat dc close failed", zap.Error(err))
			}
		}
		w.state = Stopping
	case *actor.Stopped:
		w.stopFlushLoop()
		w.state = Offline
	case *actor.Restarting:
		w.stopFlushLoop()
		w.state = Init
	case flushTick:
		w.flush()
	case *biomeUpdate:
		reqCtx, cancel := restore(msg.TraceID, msg.Deadline)
		b, err := w.writer.UpdateBiome(reqCtx, msg.Fn)
		cancel()
		ctx.Respond(&biomeReply{Biome: b, Err: err})
	case *biomeRead:
		reqCtx, cancel := restore(msg.TraceID, msg.Deadline)
		b, err := w.writer.Biome(reqCtx)
		cancel()
		ctx.Respond(&biomeReply{Biome: b, Err: err})
	}
}

func (w *WorldActor) init(ctx actor.Context) {
	w.state = Online
	if w.chat == nil {
		return
	}
	w.loadChat()
	w.startFlushLoop(ctx)
}

func (w *WorldActor) loadChat() {
	loadCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := w.chat.Load(loadCtx); err != nil {
		w.log.Warn("chat history load failed, will retry", zap.Error(err))
	}
}

func (w *WorldActor) flush() {
	if w.state != Online || w.chat == nil {
		return
	}
	if !w.chat.Loaded() {
		w.loadChat()
	}
	w.chat.Flush(context.Background())
}

func (w *WorldActor) startFlushLoop(ctx actor.Context) {
	if w.flushStop != nil {
		return
	}
	interval := w.chat.FlushEvery()
	if interval <= 0 {
		return
	}
	w.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(w.flushStop, interval)
}

func (w *WorldActor) stopFlushLoop() {
	if w.flushStop == nil {
		return
	}
	close(w.flushStop)
	w.flushStop = nil
}
