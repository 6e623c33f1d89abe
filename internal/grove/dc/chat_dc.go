package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/chat"
	"GroveWorld/internal/grove/entity"
	"GroveWorld/internal/shared/metrics"
	"GroveWorld/modules/kit/logx"
)

const (
	defaultFlushEvery = 2000 * time.Millisecond
	retryBackoff      = 200 * time.Millisecond
	saveTimeout       = 3 * time.Second
)

// ChatSnapshot is the ring content taken at one ring version.
type ChatSnapshot struct {
	Version  uint64
	Messages []entity.ChatMessage
}

// ChatDC caches a biome's chat ring in memory and writes it behind: Flush
// takes a snapshot when the ring changed since the last one, and a single
// writer goroutine persists the newest pending snapshot.
type ChatDC struct {
	repo       port.ChatRepository
	biomeID    entity.BiomeID
	ring       *chat.Ring
	flushEvery time.Duration
	metrics    *metrics.Metrics
	log        logx.Logger

	mu       sync.Mutex
	pending  *ChatSnapshot
	snapshot uint64 // ring version of the last snapshot taken
	loaded   bool
	closed   bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewChatDC(repo port.ChatRepository, biomeID entity.BiomeID, ring *chat.Ring, flushEvery time.Duration, m *metrics.Metrics, l logx.Logger) *ChatDC {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	if l == nil {
		l = logx.Nop()
	}
	d := &ChatDC{
		repo:       repo,
		biomeID:    biomeID,
		ring:       ring,
		flushEvery: flushEvery,
		metrics:    m,
		log:        l.With(zap.String("biome_id", string(biomeID))),
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load restores the persisted ring. Until it succeeds Flush writes nothing,
// so a failed load never overwrites stored history.
func (d *ChatDC) Load(ctx context.Context) error {
	if d.repo == nil {
		return errors.New("chat repository is nil")
	}
	msgs, err := d.repo.LoadChat(ctx, d.biomeID)
	if err != nil {
		return err
	}
	live, _ := d.ring.Snapshot()
	d.ring.Restore(append(msgs, live...))
	_, version := d.ring.Snapshot()

	d.mu.Lock()
	d.loaded = true
	if len(live) == 0 {
		// Nothing new beyond what is stored.
		d.snapshot = version
	}
	d.mu.Unlock()
	return nil
}

func (d *ChatDC) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

func (d *ChatDC) Ring() *chat.Ring {
	return d.ring
}

func (d *ChatDC) FlushEvery() time.Duration {
	return d.flushEvery
}

func (d *ChatDC) IsDirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded && d.ring.Version() != d.snapshot
}

func (d *ChatDC) Flush(context.Context) {
	if !d.IsDirty() {
		return
	}
	msgs, version := d.ring.Snapshot()
	d.enqueueLatest(&ChatSnapshot{Version: version, Messages: msgs})
}

func (d *ChatDC) Close(ctx context.Context) error {
	d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *ChatDC) enqueueLatest(s *ChatSnapshot) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if s.Version > d.snapshot {
		d.snapshot = s.Version
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *ChatDC) popPending() *ChatSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeueOnError puts s back unless a newer snapshot is already waiting.
func (d *ChatDC) requeueOnError(s *ChatSnapshot) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

func (d *ChatDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending()
		case <-d.stop:
			d.consumePending()
			return
		}
	}
}

func (d *ChatDC) consumePending() {
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		err := d.repo.SaveChat(ctx, d.biomeID, s.Messages)
		cancel()
		d.metrics.ChatFlush(err)
		if err != nil {
			d.log.Error("chat flush failed", zap.Uint64("version", s.Version), zap.Error(err))
			if !d.requeueOnError(s) {
				return
			}
			time.Sleep(retryBackoff)
			continue
		}
	}
}
