// Package config handles loading and hot-reloading engine configuration.
package config

import (
	"context"
	"errors"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all engine configuration values.
type Config struct {
	SampleRate          int     `mapstructure:"SampleRate"`
	BufferSize          int     `mapstructure:"BufferSize"`
	ChannelCount        int     `mapstructure:"ChannelCount"`
	CleanupInterval     float64 `mapstructure:"CleanupInterval"`
	MelodyDir           string  `mapstructure:"MelodyDir"`
	PresetDir           string  `mapstructure:"PresetDir"`
	GenreTemplatePath   string  `mapstructure:"GenreTemplatePath"`
	LogLevel            string  `mapstructure:"LogLevel"`
	CommandRateLimitRPS float64 `mapstructure:"CommandRateLimitPerSecond"`
}

// C is the global configuration instance.
var C Config

// mu protects concurrent access to C during hot-reload.
var mu sync.RWMutex

var (
	watcherMu       sync.Mutex
	watcherActive   bool
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	currentCallback ReloadCallback
)

// ReloadCallback is called when the configuration is hot-reloaded.
type ReloadCallback func(old, new Config)

// Load reads configuration from file and environment, populating C.
func Load() error {
	viper.SetConfigName("maestro")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.maestro")

	viper.SetDefault("SampleRate", 44100)
	viper.SetDefault("BufferSize", 1024)
	viper.SetDefault("ChannelCount", 2)
	viper.SetDefault("CleanupInterval", 1.0)
	viper.SetDefault("MelodyDir", "melodies")
	viper.SetDefault("PresetDir", "presets")
	viper.SetDefault("GenreTemplatePath", "genres.yaml")
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("CommandRateLimitPerSecond", 64.0)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	mu.Lock()
	defer mu.Unlock()
	return viper.Unmarshal(&C)
}

// Watch starts watching the config file for changes and calls the callback on
// reload. Returns a stop function to cancel watching. Only one watcher can be
// active at a time; calling Watch again replaces the callback but keeps the
// same underlying file watcher, avoiding viper races.
func Watch(callback ReloadCallback) (stop func(), err error) {
	watcherMu.Lock()
	defer watcherMu.Unlock()

	if !watcherActive {
		ctx, cancel := context.WithCancel(context.Background())
		watcherCtx = ctx
		watcherCancel = cancel
		currentCallback = callback
		watcherActive = true

		viper.WatchConfig()
		viper.OnConfigChange(func(e fsnotify.Event) {
			watcherMu.Lock()
			cb := currentCallback
			ctx := watcherCtx
			watcherMu.Unlock()

			if ctx != nil {
				select {
				case <-ctx.Done():
					return
				default:
				}
			}

			mu.Lock()
			old := C
			var newCfg Config
			if err := viper.Unmarshal(&newCfg); err == nil {
				C = newCfg
				mu.Unlock()
				if cb != nil {
					cb(old, newCfg)
				}
			} else {
				mu.Unlock()
			}
		})
	} else {
		currentCallback = callback
	}

	return func() {
		watcherMu.Lock()
		defer watcherMu.Unlock()
		if watcherCancel != nil {
			watcherCancel()
			watcherCancel = nil
			watcherCtx = nil
		}
		watcherActive = false
		currentCallback = nil
	}, nil
}

// Get returns a copy of the current config safely.
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return C
}

// Set updates the config safely. Primarily used by tests.
func Set(cfg Config) {
	mu.Lock()
	C = cfg
	mu.Unlock()
}
