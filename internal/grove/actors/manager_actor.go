package actors

import (
	"time"

	"github.com/asynkron/protoactor-go/actor"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/service"
)

// ManagerActor routes each request to the player's own actor, spawning it
// on first use. Actions of one player are therefore applied one at a time.
// Requests without a player id (global chat reads) share one child.
type ManagerActor struct {
	coord        *service.Coordinator
	idle         time.Duration
	playerActors map[entity.PlayerID]*actor.PID
}

func NewManagerActor(coord *service.Coordinator, idle time.Duration) *ManagerActor {
	return &ManagerActor{
		coord:        coord,
		idle:         idle,
		playerActors: make(map[entity.PlayerID]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *ActionRequest:
		if msg == nil || msg.Action == nil {
			ctx.Respond(&ActionReply{Err: service.ErrBadAction})
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.PlayerID))
	case *actor.Terminated:
		for id, pid := range m.playerActors {
			if pid.Equal(msg.Who) {
				delete(m.playerActors, id)
				return
			}
		}
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, playerID entity.PlayerID) *actor.PID {
	if pid, ok := m.playerActors[playerID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewPlayerActor(playerID, m.coord, m.idle)
	})
	pid := ctx.Spawn(props)
	ctx.Watch(pid)
	m.playerActors[playerID] = pid
	return pid
}

// Online is the number of live player actors.
func (m *ManagerActor) Online() int {
	return len(m.playerActors)
}
