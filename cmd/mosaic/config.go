package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// config holds the CLI settings read from the environment. Flags override
// these values.
type config struct {
	APIKey    string `env:"ANTHROPIC_API_KEY"`
	BaseURL   string `env:"ANTHROPIC_BASE_URL"`
	Model     string `env:"MOSAIC_MODEL"`
	MaxTokens int    `env:"MOSAIC_MAX_TOKENS" envDefault:"0"`
	LogLevel  string `env:"MOSAIC_LOG_LEVEL" envDefault:"warn"`
	Format    string `env:"MOSAIC_FORMAT" envDefault:"text"`
}

// loadConfig parses environ, falling back to the variables in the dotenv
// file at path. Variables already set in environ win. A missing dotenv file
// is not an error.
func loadConfig(environ []string, path string) (config, error) {
	vars := env.ToMap(environ)
	if path != "" {
		dotenv, err := godotenv.Read(path)
		switch {
		case err == nil:
			for k, v := range dotenv {
				if _, ok := vars[k]; !ok {
					vars[k] = v
				}
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return config{}, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return config{}, fmt.Errorf("config: %w", err)
	}
	if err := validateFormat(cfg.Format); err != nil {
		return config{}, err
	}
	return cfg, nil
}

// newLogger returns a console logger writing to w at the named level.
func newLogger(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("log level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}
