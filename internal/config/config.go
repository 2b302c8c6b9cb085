package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/tatianab/ghost-hunter/internal/game"
	"github.com/tatianab/ghost-hunter/internal/logger"
	"github.com/tatianab/ghost-hunter/internal/models"
)

const (
	DefaultAnalysisModel = "gemini-2.5-flash"
	DefaultImageModel    = "gemini-2.5-flash-image"
	DefaultLogFile       = "ghosthunter.log"
)

// Config holds the application configuration.
type Config struct {
	// GeminiAPIKey may be empty; the game then runs with fallback text only.
	GeminiAPIKey  string
	AnalysisModel string
	ImageModel    string

	TuningFile string
	LayoutFile string

	Log logger.Options
}

// LoadConfig loads the configuration from environment variables, reading a
// .env file in the working directory first if there is one.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return &Config{
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		AnalysisModel: getenv("GEMINI_ANALYSIS_MODEL", DefaultAnalysisModel),
		ImageModel:    getenv("GEMINI_IMAGE_MODEL", DefaultImageModel),
		TuningFile:    os.Getenv("GHOSTHUNTER_TUNING"),
		LayoutFile:    os.Getenv("GHOSTHUNTER_LAYOUT"),
		Log: logger.Options{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
			File:   getenv("LOG_FILE", DefaultLogFile),
		},
	}, nil
}

// Online reports whether an API key is configured.
func (c *Config) Online() bool {
	return c.GeminiAPIKey != ""
}

// Tuning returns the default tuning, overridden by TuningFile when set.
func (c *Config) Tuning() (game.Tuning, error) {
	if c.TuningFile == "" {
		return game.DefaultTuning(), nil
	}
	return game.LoadTuning(c.TuningFile)
}

// Layout returns the built-in graveyard, or LayoutFile when set.
func (c *Config) Layout() (models.Layout, error) {
	if c.LayoutFile == "" {
		return models.DefaultLayout()
	}
	return models.LoadLayout(c.LayoutFile)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
