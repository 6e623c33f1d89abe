package serverconfig

import (
	"os"

	"GroveWorld/internal/shared/config"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

// Load reads conf.yml (or the file named by GROVE_CONFIG) into Conf and
// fills defaults for anything left zero.
func Load() error {
	if err := config.Load(os.Getenv("GROVE_CONFIG"), defaultConfigRelPath, &Conf); err != nil {
		return err
	}
	Conf.ApplyDefaults()
	// The environment wins; fall back to the configured secret for local runs.
	if os.Getenv("JWT_SECRET") == "" && Conf.Auth.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", Conf.Auth.JWTSecret)
	}
	return nil
}

func (c *Config) ApplyDefaults() {
	if c.HTTPServer.Port == 0 {
		c.HTTPServer.Port = 8080
	}
	if c.HTTPServer.WSPath == "" {
		c.HTTPServer.WSPath = "/ws"
	}
	if c.GRPCServer.Port == 0 {
		c.GRPCServer.Port = 9090
	}
	if c.Store.Driver == "" {
		c.Store.Driver = "memory"
	}
	if c.Store.TimeoutMs <= 0 {
		c.Store.TimeoutMs = 3000
	}
	if c.Store.CASRetries <= 0 {
		c.Store.CASRetries = 5
	}
	if c.Store.SaveFanout <= 0 {
		c.Store.SaveFanout = 2
	}
	if c.World.BiomeID == "" {
		c.World.BiomeID = "grove-main"
	}
	if c.World.Name == "" {
		c.World.Name = "The Grove"
	}
	if c.World.Type == "" {
		c.World.Type = "forest"
	}
	if c.World.Width <= 0 {
		c.World.Width = 200
	}
	if c.World.Depth <= 0 {
		c.World.Depth = 200
	}
	if c.World.CellSize <= 0 {
		c.World.CellSize = 10
	}
	if c.World.MaxPlayers <= 0 {
		c.World.MaxPlayers = 100
	}
	if c.World.MaxPlots <= 0 {
		c.World.MaxPlots = 400
	}
	if c.Actor.AskTimeoutMs <= 0 {
		c.Actor.AskTimeoutMs = 5000
	}
	if c.Chat.Capacity <= 0 {
		c.Chat.Capacity = 100
	}
	if c.Chat.MaxLength <= 0 {
		c.Chat.MaxLength = 280
	}
	if c.Chat.FlushMs <= 0 {
		c.Chat.FlushMs = 2000
	}
	if c.Auth.TokenTTLh <= 0 {
		c.Auth.TokenTTLh = 24
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
