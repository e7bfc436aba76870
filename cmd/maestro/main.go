package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/maestro/internal/arrangement"
	"github.com/opd-ai/maestro/internal/audioengine"
	"github.com/opd-ai/maestro/internal/audiograph"
	"github.com/opd-ai/maestro/internal/client"
	"github.com/opd-ai/maestro/internal/config"
	"github.com/opd-ai/maestro/internal/maestro"
	"github.com/opd-ai/maestro/internal/melody"
	"github.com/opd-ai/maestro/internal/preset"
	"github.com/opd-ai/maestro/internal/progression"
)

var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error); overrides config when set")

func main() {
	flag.Parse()

	logrus.SetFormatter(&logrus.JSONFormatter{})

	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	cfg := config.Get()

	level := cfg.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	if parsed, err := logrus.ParseLevel(level); err == nil {
		logrus.SetLevel(parsed)
	} else {
		logrus.WithError(err).Warn("invalid log level, defaulting to info")
	}

	logrus.WithFields(logrus.Fields{
		"sample_rate": cfg.SampleRate,
		"buffer_size": cfg.BufferSize,
		"preset_dir":  cfg.PresetDir,
		"melody_dir":  cfg.MelodyDir,
	}).Info("starting maestro audio engine")

	registry := preset.NewRegistry()
	if errs := registry.LoadAll(); len(errs) > 0 {
		logrus.WithField("errors", errs).Warn("some presets failed to load")
	}

	compositor := melody.NewCompositor()
	if err := compositor.LoadRepo(cfg.MelodyDir); err != nil {
		logrus.WithError(err).Warn("failed to load melody repository, continuing with none loaded")
	}

	templates, err := progression.LoadTemplates(cfg.GenreTemplatePath)
	if err != nil {
		logrus.WithError(err).Warn("failed to load genre templates, using defaults")
		templates = progression.DefaultTemplates()
	}

	engineCtx, cancelEngine := context.WithCancel(context.Background())
	engine := audioengine.New(registry, time.Duration(cfg.CleanupInterval*float64(time.Second)))
	engine.SetOutput(audiograph.NewPlayback(float64(cfg.SampleRate)), float64(cfg.SampleRate))
	go func() {
		if err := engine.Run(engineCtx); err != nil {
			logrus.WithError(err).Error("audio worker loop exited with error")
		}
	}()

	c := client.New(engine, cfg.CommandRateLimitRPS, cancelEngine)
	arranger := arrangement.New(compositor, templates, time.Now().UnixNano())
	m := maestro.New(c, registry.Names(), time.Now().UnixNano())

	stop, err := config.Watch(func(old, next config.Config) {
		logrus.Info("configuration reloaded")
	})
	if err != nil {
		logrus.WithError(err).Warn("configuration hot-reload watcher failed to start")
	} else {
		defer stop()
	}

	zoneCtx, cancelZones := context.WithCancel(context.Background())
	m.EnterZone(zoneCtx, "ambient", registry.Names(), arranger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logrus.Info("shutdown signal received, stopping audio worker")
	cancelZones()
	if err := c.Shutdown(); err != nil {
		logrus.WithError(err).Error("error during audio worker shutdown")
	}
	logrus.Info("maestro stopped")
}
