package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"streamsched/internal/config"
	"streamsched/internal/ipc"
	"streamsched/internal/logging"
)

type commandContext struct {
	apiFlag    *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(apiFlag, configFlag *string) *commandContext {
	return &commandContext{
		apiFlag:    apiFlag,
		configFlag: configFlag,
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

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) apiAddress(cfg *config.Config) string {
	if c.apiFlag != nil && strings.TrimSpace(*c.apiFlag) != "" {
		return strings.TrimSpace(*c.apiFlag)
	}
	if cfg == nil {
		return ""
	}
	return cfg.Paths.APIBind
}

// dialDaemon returns a client for the running daemon, or ipc.ErrUnavailable.
func (c *commandContext) dialDaemon(ctx context.Context) (*ipc.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	addr := c.apiAddress(cfg)
	if addr == "" {
		return nil, ipc.ErrUnavailable
	}
	return ipc.Dial(ctx, addr, cfg.Paths.APIToken)
}

// openBackend prefers the running daemon and falls back to the local
// snapshot database.
func (c *commandContext) openBackend(ctx context.Context) (backend, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	client, err := c.dialDaemon(ctx)
	switch {
	case err == nil:
		return newRemoteBackend(ctx, client)
	case !errors.Is(err, ipc.ErrUnavailable):
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	return openLocalBackend(ctx, cfg, c.fileLogger(cfg))
}

func (c *commandContext) withBackend(cmd *cobra.Command, fn func(backend) error) error {
	b, err := c.openBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

// fileLogger writes to the log file only so terminal output stays clean.
func (c *commandContext) fileLogger(cfg *config.Config) *slog.Logger {
	if cfg == nil || cfg.LogPath() == "" {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           "json",
		OutputPaths:      []string{cfg.LogPath()},
		ErrorOutputPaths: []string{cfg.LogPath()},
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
