package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/service"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// PlayerActor applies one player's actions in arrival order and stops
// itself after a period without requests.
type PlayerActor struct {
	state    State
	playerID entity.PlayerID
	coord    *service.Coordinator
	idle     time.Duration
}

func NewPlayerActor(playerID entity.PlayerID, coord *service.Coordinator, idle time.Duration) *PlayerActor {
	return &PlayerActor{
		state:    None,
		playerID: playerID,
		coord:    coord,
		idle:     idle,
	}
}

func (p *PlayerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Online
		if p.idle > 0 {
			ctx.SetReceiveTimeout(p.idle)
		}
	case *actor.ReceiveTimeout:
		p.state = Stopping
		ctx.Stop(ctx.Self())
	case *actor.Stopping:
		p.state = Stopping
	case *actor.Stopped:
		p.state = Offline
	case *actor.Restarting:
		p.state = Init
	case *ActionRequest:
		if p.state != Online {
			ctx.Respond(&ActionReply{Err: service.ErrUnavailable.WithData("player_id", string(p.playerID))})
			return
		}
		reqCtx, cancel := restore(msg.TraceID, msg.Deadline)
		res, err := p.coord.Do(reqCtx, p.playerID, msg.Action)
		cancel()
		ctx.Respond(&ActionReply{Result: res, Err: err})
	}
}

func (p *PlayerActor) PlayerID() entity.PlayerID {
	return p.playerID
}

func (p *PlayerActor) State() State {
	return p.state
}
