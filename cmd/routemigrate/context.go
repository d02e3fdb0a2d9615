package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
	"routemigrate/internal/docstore/firestore"
	"routemigrate/internal/docstore/sqlitestore"
	"routemigrate/internal/logging"
	"routemigrate/internal/preflight"
	"routemigrate/internal/services"
)

type commandContext struct {
	configFlag      *string
	projectFlag     *string
	credentialsFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, projectFlag, credentialsFlag *string) *commandContext {
	return &commandContext{
		configFlag:      configFlag,
		projectFlag:     projectFlag,
		credentialsFlag: credentialsFlag,
	}
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(
			flagValue(c.configFlag),
			config.WithProjectID(flagValue(c.projectFlag)),
			config.WithCredentialsFile(flagValue(c.credentialsFlag)),
		)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = fmt.Errorf("%w: %w", services.ErrConfiguration, err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("%w: init logger: %w", services.ErrConfiguration, err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// openStore runs preflight checks and opens the configured backend. The
// caller owns the returned store.
func (c *commandContext) openStore(ctx context.Context) (docstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := preflight.Err(preflight.RunAll(cfg)); err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case config.BackendSQLite:
		store, err := sqlitestore.Open(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, services.Wrap(services.ErrStore, "open", "sqlite", cfg.Store.SQLitePath, err)
		}
		return store, nil
	case config.BackendFirestore:
		store, err := firestore.Open(ctx, firestore.Options{
			ProjectID:       cfg.Store.ProjectID,
			CredentialsFile: cfg.Store.CredentialsFile,
			EmulatorHost:    cfg.Store.EmulatorHost,
		})
		if err != nil {
			// Client construction does no I/O; failures here are bad
			// credentials or options.
			return nil, services.Wrap(services.ErrConfiguration, "open", "firestore", cfg.Store.ProjectID, err)
		}
		return store, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "open", "", fmt.Sprintf("unsupported store backend %q", cfg.Store.Backend), nil)
	}
}

// withStore opens the store for the duration of fn.
func (c *commandContext) withStore(ctx context.Context, fn func(docstore.Store, *config.Config, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("close store", logging.Error(closeErr))
		}
	}()
	return fn(store, cfg, logger)
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
