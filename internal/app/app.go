// Package app wires configuration, logging and the oracle together for the
// front ends.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/tatianab/ghost-hunter/internal/config"
	"github.com/tatianab/ghost-hunter/internal/engine"
	"github.com/tatianab/ghost-hunter/internal/game"
	"github.com/tatianab/ghost-hunter/internal/logger"
	"github.com/tatianab/ghost-hunter/internal/models"
	"github.com/tatianab/ghost-hunter/internal/session"
)

// App is everything a front end needs to start a session.
type App struct {
	Config *config.Config
	Tuning game.Tuning
	Layout models.Layout
	Oracle session.Oracle

	logFile io.Closer
	engine  *engine.Engine
}

// Load reads the configuration, opens the log and connects to Gemini when
// an API key is set.
func Load(ctx context.Context) (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return FromConfig(ctx, cfg)
}

// FromConfig is Load with an already loaded configuration.
func FromConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	logFile, err := logger.Init(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	a := &App{Config: cfg, logFile: logFile}

	if a.Tuning, err = cfg.Tuning(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load tuning: %w", err)
	}
	if a.Layout, err = cfg.Layout(); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load layout: %w", err)
	}

	log := logger.For("app")
	if !cfg.Online() {
		log.Warn("GEMINI_API_KEY not set, spectral analysis will use fallback text")
		a.Oracle = engine.Offline{}
		return a, nil
	}

	a.engine, err = engine.NewEngine(ctx, cfg.GeminiAPIKey, cfg.AnalysisModel, cfg.ImageModel)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	a.Oracle = a.engine
	log.WithField("model", cfg.AnalysisModel).Info("oracle connected")
	return a, nil
}

// NewSession starts a fresh game on the title screen.
func (a *App) NewSession(opts ...session.Option) *session.Session {
	return session.New(a.Tuning, a.Layout, opts...)
}

func (a *App) Close() {
	if a.engine != nil {
		a.engine.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
