// Package chat keeps the biome's recent messages in a bounded ring.
package chat

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sasha-s/go-deadlock"
	"golang.org/x/text/unicode/norm"

	"GroveWorld/internal/grove/entity"
)

const (
	DefaultCapacity  = 100
	DefaultMaxLength = 280
)

var (
	ErrEmpty   = errors.New("chat message is empty")
	ErrTooLong = errors.New("chat message is too long")
)

// Ring is a fixed-capacity log; appending past capacity evicts the oldest
// entry. Safe for concurrent use.
type Ring struct {
	mu       deadlock.RWMutex
	buf      []entity.ChatMessage
	start    int
	size     int
	version  uint64
	capacity int
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		buf:      make([]entity.ChatMessage, capacity),
		capacity: capacity,
	}
}

func (r *Ring) Capacity() int {
	return r.capacity
}

func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// Version increases on every Append or Restore.
func (r *Ring) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

func (r *Ring) Append(m entity.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendLocked(m)
	r.version++
}

func (r *Ring) appendLocked(m entity.ChatMessage) {
	if r.size < r.capacity {
		r.buf[(r.start+r.size)%r.capacity] = m
		r.size++
		return
	}
	r.buf[r.start] = m
	r.start = (r.start + 1) % r.capacity
}

// Recent returns up to limit of the newest messages, oldest first.
// limit <= 0 returns everything held.
func (r *Ring) Recent(limit int) []entity.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := r.size
	if limit > 0 && limit < n {
		n = limit
	}
	return r.recentLocked(n)
}

func (r *Ring) recentLocked(n int) []entity.ChatMessage {
	out := make([]entity.ChatMessage, 0, n)
	for i := r.size - n; i < r.size; i++ {
		out = append(out, r.buf[(r.start+i)%r.capacity])
	}
	return out
}

// Snapshot returns all held messages with the version they correspond to.
func (r *Ring) Snapshot() ([]entity.ChatMessage, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.recentLocked(r.size), r.version
}

// Restore replaces the contents with msgs, keeping only the newest capacity.
func (r *Ring) Restore(msgs []entity.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start, r.size = 0, 0
	if len(msgs) > r.capacity {
		msgs = msgs[len(msgs)-r.capacity:]
	}
	for _, m := range msgs {
		r.appendLocked(m)
	}
	r.version++
}

// Normalize trims and NFC-normalizes text and enforces 1..maxLen runes.
func Normalize(text string, maxLen int) (string, error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}
	s := norm.NFC.String(strings.TrimSpace(text))
	if s == "" {
		return "", ErrEmpty
	}
	if utf8.RuneCountInString(s) > maxLen {
		return "", ErrTooLong
	}
	return s, nil
}
