// Package service is the world state coordinator: every player action is
// one load, mutate, persist cycle over the player, biome and game state
// records.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"go.uber.org/zap"

	"GroveWorld/internal/grove/achievement"
	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/chat"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/grove/growth"
	"GroveWorld/internal/shared/gameconfig/balance"
	"GroveWorld/internal/shared/metrics"
	"GroveWorld/internal/shared/utils"
	"GroveWorld/modules/kit/errx"
	"GroveWorld/modules/kit/logx"
)

const defaultSaveFanout = 2

type Options struct {
	Repo  port.WorldRepository
	World WorldSettings
	// Biomes defaults to a CASBiomeWriter over Repo.
	Biomes        BiomeWriter
	Balance       *balance.Balance
	Chat          *chat.Ring
	ChatMaxLength int
	CASRetries    int
	SaveFanout    int
	Metrics       *metrics.Metrics
	Logger        logx.Logger
	Now           func() time.Time
	NewID         func(prefix string) (string, error)
}

type Coordinator struct {
	repo         port.WorldRepository
	biomes       BiomeWriter
	world        WorldSettings
	balance      *balance.Balance
	growth       growth.Params
	achievements *achievement.Evaluator
	chat         *chat.Ring
	chatMaxLen   int
	fanout       int
	metrics      *metrics.Metrics
	log          logx.Logger
	now          func() time.Time
	newID        func(prefix string) (string, error)
}

func NewCoordinator(opts Options) *Coordinator {
	c := &Coordinator{
		repo:       opts.Repo,
		biomes:     opts.Biomes,
		world:      opts.World,
		balance:    opts.Balance,
		chat:       opts.Chat,
		chatMaxLen: opts.ChatMaxLength,
		fanout:     opts.SaveFanout,
		metrics:    opts.Metrics,
		log:        opts.Logger,
		now:        opts.Now,
		newID:      opts.NewID,
	}
	if c.balance == nil {
		c.balance = balance.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = utils.NextID
	}
	if c.log == nil {
		c.log = logx.Nop()
	}
	if c.chat == nil {
		c.chat = chat.NewRing(chat.DefaultCapacity)
	}
	if c.chatMaxLen <= 0 {
		c.chatMaxLen = chat.DefaultMaxLength
	}
	if c.fanout <= 0 {
		c.fanout = defaultSaveFanout
	}
	if c.biomes == nil {
		c.biomes = NewCASBiomeWriter(c.repo, c.world, opts.CASRetries, c.now)
	}
	c.growth = growth.ParamsFrom(c.balance.Growth)
	c.achievements = achievement.NewEvaluator(c.balance.Achievements)
	return c
}

func (c *Coordinator) Balance() *balance.Balance {
	return c.balance
}

func (c *Coordinator) Chat() *chat.Ring {
	return c.chat
}

// Dispatch runs a single action for player pid.
func (c *Coordinator) Dispatch(ctx context.Context, pid entity.PlayerID, a Action) (any, error) {
	switch a := a.(type) {
	case Init:
		return c.Init(ctx, pid, a)
	case Move:
		return c.Move(ctx, pid, a)
	case Plant:
		return c.Plant(ctx, pid, a)
	case Water:
		return c.Water(ctx, pid, a)
	case Fertilize:
		return c.Fertilize(ctx, pid, a)
	case Harvest:
		return c.Harvest(ctx, pid, a)
	case BuySeeds:
		return c.BuySeeds(ctx, pid, a)
	case BuyLand:
		return c.BuyLand(ctx, pid, a)
	case BuySupplies:
		return c.BuySupplies(ctx, pid, a)
	case Nearby:
		return c.Nearby(ctx, pid, a)
	case ChatSend:
		return c.SendChat(ctx, pid, a)
	case ChatRecent:
		return c.RecentChat(ctx, a)
	default:
		return nil, ErrBadAction
	}
}

// Do is Dispatch plus one metric sample and, for failures, one log line.
func (c *Coordinator) Do(ctx context.Context, pid entity.PlayerID, a Action) (any, error) {
	if a == nil {
		return nil, ErrBadAction
	}
	start := time.Now()
	res, err := c.Dispatch(ctx, pid, a)
	l := c.log.With(zap.String("player_id", string(pid)))

	result := "ok"
	switch {
	case err != nil:
		result = "error"
		var xe *errx.Error
		if errors.As(err, &xe) {
			result = xe.CodeText()
		}
		logx.ReportSysError(ctx, l, logx.NewSysLog(a.Name(), err))
	default:
		if o, ok := res.(interface{ Status() Outcome }); ok && !o.Status().Success {
			result = "rejected"
			out := o.Status()
			logx.ReportBiz(ctx, l, logx.NewBizLog(a.Name(), out.Reason, out.Message))
		}
	}
	c.metrics.ObserveAction(a.Name(), result, time.Since(start))
	return res, err
}

// session is the player-scoped state read at the start of an action.
type session struct {
	state         *entity.GameState
	stateVersion  uint64
	playerVersion uint64
	// biomeFresh is set once the biome copy in state came from the writer
	// during this action.
	biomeFresh bool
}

func (s *session) player() *entity.Player {
	return &s.state.Player
}

func (c *Coordinator) loadSession(ctx context.Context, pid entity.PlayerID) (*session, error) {
	gs, gsVersion, err := c.repo.LoadGameState(ctx, pid)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return nil, ErrPlayerNotFound.WithData("player_id", string(pid))
		}
		return nil, storeErr(err)
	}
	s := &session{state: gs, stateVersion: gsVersion}

	p, pVersion, err := c.repo.LoadPlayer(ctx, pid)
	switch {
	case err == nil:
		gs.Player = *p
		s.playerVersion = pVersion
	case errors.Is(err, port.ErrNotFound):
		// game state outlived a crash before the player save; rewrite it.
	default:
		return nil, storeErr(err)
	}
	gs.SetCoins(gs.Player.Coins)
	return s, nil
}

// persist writes player and game state in parallel. The biome, when
// touched, has already been written by the biome writer.
func (c *Coordinator) persist(ctx context.Context, s *session, now time.Time) error {
	gs := s.state
	gs.UpdatedAt = now
	gs.SetCoins(gs.Player.Coins)
	c.view(gs, now)
	player := gs.Player.Clone()

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	swg := sizedwaitgroup.New(c.fanout)
	swg.Add()
	go func() {
		defer swg.Done()
		v, err := c.repo.SavePlayer(ctx, &player, s.playerVersion)
		if err != nil {
			fail(err)
			return
		}
		s.playerVersion = v
	}()
	swg.Add()
	go func() {
		defer swg.Done()
		v, err := c.repo.SaveGameState(ctx, gs, s.stateVersion)
		if err != nil {
			fail(err)
			return
		}
		s.stateVersion = v
	}()
	swg.Wait()
	return storeErr(firstErr)
}

// view fills the read-time fields of every tree.
func (c *Coordinator) view(gs *entity.GameState, now time.Time) {
	for i := range gs.Trees {
		growth.Snapshot(&gs.Trees[i], now, c.growth)
	}
}

// mutation applies one action to a loaded session. A rejected outcome
// must leave the session unchanged.
type mutation func(s *session, now time.Time) (Outcome, error)

// apply is the shared load, mutate, evaluate, persist cycle.
func (c *Coordinator) apply(ctx context.Context, pid entity.PlayerID, trigger achievement.Trigger, fn mutation) (*session, Outcome, []entity.Achievement, error) {
	s, err := c.loadSession(ctx, pid)
	if err != nil {
		return nil, Outcome{}, nil, err
	}
	now := c.now()
	out, err := fn(s, now)
	if err != nil {
		return nil, Outcome{}, nil, err
	}
	if !s.biomeFresh {
		if err := c.refreshBiome(ctx, s); err != nil {
			return nil, Outcome{}, nil, err
		}
	}
	if !out.Success {
		c.view(s.state, now)
		return s, out, []entity.Achievement{}, nil
	}
	s.player().LastActive = now
	unlocked := c.achievements.Apply(s.player(), trigger, now)
	if unlocked == nil {
		unlocked = []entity.Achievement{}
	}
	if err := c.persist(ctx, s, now); err != nil {
		return nil, Outcome{}, nil, err
	}
	return s, out, unlocked, nil
}

// updateBiome runs fn through the biome writer and refreshes the session's
// biome copy with the committed record.
func (c *Coordinator) updateBiome(ctx context.Context, s *session, fn BiomeMutation) error {
	b, err := c.biomes.UpdateBiome(ctx, fn)
	if err != nil {
		return err
	}
	if s != nil {
		s.state.Biome = b.Clone()
		s.biomeFresh = true
	}
	c.metrics.SetRoster(len(b.Players))
	return nil
}

// refreshBiome replaces the session's biome copy with the current record.
func (c *Coordinator) refreshBiome(ctx context.Context, s *session) error {
	b, err := c.biomes.Biome(ctx)
	if err != nil {
		return err
	}
	s.state.Biome = b.Clone()
	s.biomeFresh = true
	return nil
}

func (c *Coordinator) nextID(prefix string) (string, error) {
	id, err := c.newID(prefix)
	if err != nil {
		return "", errx.ErrInternal.WithData("prefix", prefix).WithCause(err)
	}
	return id, nil
}

func (c *Coordinator) species(name entity.Species) (balance.Species, bool) {
	return c.balance.SpeciesByName(string(name))
}
