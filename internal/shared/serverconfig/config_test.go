package serverconfig

import "testing"

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	var c Config
	c.World.Width = 40
	c.ApplyDefaults()

	if c.Store.Driver != "memory" {
		t.Fatalf("driver=%q", c.Store.Driver)
	}
	if c.World.Width != 40 {
		t.Fatalf("width overwritten: %v", c.World.Width)
	}
	if c.World.CellSize != 10 || c.Chat.Capacity != 100 || c.Chat.MaxLength != 280 {
		t.Fatalf("unexpected defaults: %+v %+v", c.World, c.Chat)
	}
	if c.Store.CASRetries <= 0 || c.Actor.AskTimeoutMs <= 0 {
		t.Fatalf("timeouts not defaulted: %+v %+v", c.Store, c.Actor)
	}
}
