package main

import (
	"fmt"
	"log/slog"

	"sceneflow/internal/config"
	"sceneflow/internal/daemon"
	"sceneflow/internal/propagation"
	"sceneflow/internal/store"
)

func bootstrapDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open catalog store: %w", err)
	}

	engine := propagation.NewEngine(st, logger, cfg)

	d, err := daemon.New(cfg, st, engine, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return d, nil
}
