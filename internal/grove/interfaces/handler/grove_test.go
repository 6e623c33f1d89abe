package handler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/identity"
	"GroveWorld/internal/grove/infra/persistence/kv"
	"GroveWorld/internal/grove/infra/persistence/memory"
	"GroveWorld/internal/grove/plot"
	"GroveWorld/internal/grove/service"
	"GroveWorld/internal/shared/transport"
	"GroveWorld/modules/kit/errx"
)

func newCoordinator() *service.Coordinator {
	return service.NewCoordinator(service.Options{
		Repo: kv.NewRepository(memory.NewStore(), time.Second, nil),
		World: service.WorldSettings{
			BiomeID:     "grove-handler",
			Type:        "forest",
			Grid:        plot.Centered(30, 10, 10),
			Environment: entity.Environment{MaxPlayers: 10},
		},
		CASRetries: 3,
	})
}

func TestGrove_InitTakesUsernameFromIdentity(t *testing.T) {
	g := NewGrove(Options{Runner: newCoordinator(), Identity: identity.Static{Username: "Alice"}})

	r := g.Handle(context.Background(), "", service.ActionInit, map[string]any{"username": "mallory"})
	if r.Code != transport.OK {
		t.Fatalf("code = %d msg = %q", r.Code, r.Msg)
	}
	res := r.Data.(*service.InitResult)
	if res.GameState.Player.ID != "alice" || res.GameState.Player.Username != "Alice" {
		t.Fatalf("player = %+v", res.GameState.Player)
	}
}

func TestGrove_RejectedOutcomeMapsToRejected(t *testing.T) {
	g := NewGrove(Options{Runner: newCoordinator(), Identity: identity.Static{Username: "bob"}})
	ctx := context.Background()
	if r := g.Handle(ctx, "", service.ActionInit, nil); r.Code != transport.OK {
		t.Fatalf("init code = %d", r.Code)
	}

	r := g.Handle(ctx, "", service.ActionBuySeeds, map[string]any{"species": "oak", "quantity": 0})
	if r.Code != transport.Rejected {
		t.Fatalf("code = %d, want rejected", r.Code)
	}
	if out := r.Data.(*service.PurchaseResult).Outcome; out.Reason != service.ReasonBadQuantity.Code {
		t.Fatalf("reason = %q", out.Reason)
	}
}

func TestGrove_ErrorsMapToClientCodes(t *testing.T) {
	ctx := context.Background()
	g := NewGrove(Options{Runner: newCoordinator(), Identity: identity.Static{Username: "carol"}})

	if r := g.Handle(ctx, "", service.ActionMove, map[string]any{"x": 1}); r.Code != transport.NotFound {
		t.Fatalf("unknown player code = %d", r.Code)
	}
	if r := g.Handle(ctx, "", "teleport", nil); r.Code != transport.InvalidParam {
		t.Fatalf("unknown action code = %d", r.Code)
	}

	anon := NewGrove(Options{Runner: newCoordinator(), Identity: identity.Static{}})
	if r := anon.Handle(ctx, "", service.ActionInit, nil); r.Code != transport.Unauthorized {
		t.Fatalf("anonymous code = %d", r.Code)
	}
	if r := anon.Handle(ctx, "", service.ActionChatRecent, nil); r.Code != transport.OK {
		t.Fatalf("anonymous chat read code = %d", r.Code)
	}
}

func TestHandleError_HidesSystemDetail(t *testing.T) {
	ctx := transport.NewContext("test")
	code, msg := HandleError(ctx, errx.ErrUnavailable.WithCause(fmt.Errorf("dial tcp: refused")))
	if code != transport.Unavailable || msg != busyMsg {
		t.Fatalf("got %d %q", code, msg)
	}
	code, msg = HandleError(ctx, service.ErrWorldFull)
	if code != transport.WorldFull || msg == busyMsg {
		t.Fatalf("got %d %q", code, msg)
	}
}
