package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

var reloadMu sync.Mutex

func load(configPath string, out any) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("GROVE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", configPath, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("unmarshal config %s: %w", configPath, err)
	}

	// only hot-reloadable fields (log level, chat limits) are expected to change at runtime
	v.OnConfigChange(func(e fsnotify.Event) {
		reloadMu.Lock()
		defer reloadMu.Unlock()
		_ = v.Unmarshal(out)
	})
	v.WatchConfig()
	return nil
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
