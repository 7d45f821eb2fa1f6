package main

import (
	"fmt"

	"sceneflow/internal/config"
	"sceneflow/internal/logging"
	"sceneflow/internal/propagation"
	"sceneflow/internal/store"
)

// commandContext lazily loads configuration once per invocation and shares it
// across subcommands.
type commandContext struct {
	configFlag *string

	cfg        *config.Config
	configPath string
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolved, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.configPath = resolved
	return cfg, nil
}

// openEngine opens the catalog store and builds an engine over it. The
// returned cleanup closes the store.
func (c *commandContext) openEngine() (*propagation.Engine, *store.Store, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open catalog store: %w", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		st.Close()
		return nil, nil, nil, err
	}
	engine := propagation.NewEngine(st, logger, cfg)
	cleanup := func() { _ = st.Close() }
	return engine, st, cleanup, nil
}

// openStore opens just the catalog store for commands that bypass the engine.
func (c *commandContext) openStore() (*store.Store, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog store: %w", err)
	}
	return st, func() { _ = st.Close() }, nil
}
