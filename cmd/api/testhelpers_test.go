package main

import (
	"io"
	"log/slog"
	"testing"

	"cinescope/proj/internal/config"
)

// NewTestApplication builds an Application with just enough wiring for
// handler and middleware tests. No database or services are attached, pass
// cfg as nil to get a default test config.
func NewTestApplication(cfg *config.Config, t *testing.T) *Application {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Application{
		cfg: cfg,
		log: log,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
