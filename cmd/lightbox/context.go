package main

import (
	"log/slog"
	"strings"
	"sync"

	"lightbox/internal/codec"
	"lightbox/internal/config"
	"lightbox/internal/library"
	"lightbox/internal/logging"
)

// commandContext lazily resolves the config, logger, and store once per
// invocation and shares them across subcommands.
type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	storeOnce sync.Once
	store     *library.Store
	storeErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureStore() (*library.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.storeOnce.Do(func() {
		c.store, c.storeErr = library.Open(cfg)
	})
	return c.store, c.storeErr
}

func (c *commandContext) logger() *slog.Logger {
	if c.verboseFlag != nil && *c.verboseFlag {
		logger, err := logging.New(logging.Options{
			Level:       "debug",
			Format:      "console",
			OutputPaths: []string{"stderr"},
		})
		if err == nil {
			return logger
		}
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return logging.NewNop()
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) codecService() *codec.Service {
	cfg, _ := c.ensureConfig()
	return codec.NewService(cfg)
}

func (c *commandContext) facade() (*library.Library, error) {
	store, err := c.ensureStore()
	if err != nil {
		return nil, err
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return library.New(store, cfg, c.logger()), nil
}
