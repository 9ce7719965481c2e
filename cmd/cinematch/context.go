package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cinematch/internal/catalog"
	"cinematch/internal/config"
	"cinematch/internal/ledger"
	"cinematch/internal/logging"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	ledger *ledger.Store
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
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
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger once, tagged with a session ID so
// every record from one invocation can be grouped in cinematch.log.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logging.WithSession(logger, uuid.NewString())
	})
	return c.logger, c.loggerErr
}

// ledgerStore opens the build ledger on first use. It returns nil when the
// ledger is disabled.
func (c *commandContext) ledgerStore(ctx context.Context) (*ledger.Store, error) {
	if c.ledger != nil {
		return c.ledger, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Ledger.Enabled {
		return nil, nil
	}
	store, err := ledger.Open(ctx, cfg.LedgerPath())
	if err != nil {
		return nil, fmt.Errorf("open build ledger: %w", err)
	}
	c.ledger = store
	return store, nil
}

func (c *commandContext) builder(ctx context.Context) (*catalog.Builder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	b := catalog.NewBuilder(cfg, logger)
	store, err := c.ledgerStore(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "build ledger unavailable", "ledger_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "this run is not recorded in build history"),
		)
		return b, nil
	}
	if store != nil {
		b.WithLedger(store)
	}
	return b, nil
}

func (c *commandContext) close() error {
	if c.ledger == nil {
		return nil
	}
	err := c.ledger.Close()
	c.ledger = nil
	return err
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
