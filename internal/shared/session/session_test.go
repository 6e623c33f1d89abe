package session

import (
	"sync"
	"testing"
	"time"
)

type fakeConn struct {
	mu     sync.Mutex
	props  map[string]any
	pushed []string
	done   chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: map[string]any{}, done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(k string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.props[k] = v
}

func (c *fakeConn) GetProperty(k string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props[k]
}

func (c *fakeConn) RemoveProperty(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.props, k)
}

func (c *fakeConn) Addr() string { return "fake" }

func (c *fakeConn) Push(name string, _ any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushed = append(c.pushed, name)
}

func (c *fakeConn) Close() { c.once.Do(func() { close(c.done) }) }

func (c *fakeConn) Done() <-chan struct{} { return c.done }

func (c *fakeConn) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.pushed...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSessMgr_BindAndLookup(t *testing.T) {
	m := NewSessMgr()
	c := newFakeConn()
	m.Bind("alice", "tok", c)

	if got, ok := m.GetPlayer(c); !ok || got != "alice" {
		t.Fatalf("GetPlayer = %q %v", got, ok)
	}
	if got, ok := m.GetConn("alice"); !ok || got != c {
		t.Fatal("GetConn did not return the bound conn")
	}
	if c.GetProperty("uid") != "alice" {
		t.Fatal("uid property not set")
	}
}

func TestSessMgr_SecondLoginKicksFirst(t *testing.T) {
	m := NewSessMgr()
	first, second := newFakeConn(), newFakeConn()
	m.Bind("alice", "t1", first)
	m.Bind("alice", "t2", second)

	waitFor(t, func() bool {
		select {
		case <-first.Done():
			return true
		default:
			return false
		}
	})
	if names := first.names(); len(names) != 1 || names[0] != KickedMsg {
		t.Fatalf("first conn pushes = %v", names)
	}
	if got, _ := m.GetConn("alice"); got != second {
		t.Fatal("alice should be bound to the second conn")
	}
	if m.Online() != 1 {
		t.Fatalf("online = %d", m.Online())
	}
}

func TestSessMgr_ClosedConnUnbinds(t *testing.T) {
	m := NewSessMgr()
	c := newFakeConn()
	m.Bind("bob", "t", c)
	c.Close()
	waitFor(t, func() bool { return m.Online() == 0 })
	if _, ok := m.GetPlayer(c); ok {
		t.Fatal("closed conn still bound")
	}
}
