package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateCollections(); err != nil {
		return err
	}
	if err := c.validateMigration(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendFirestore:
		if c.Store.ProjectID == "" {
			return errors.New("store.project_id is required for the firestore backend (or set GOOGLE_CLOUD_PROJECT)")
		}
		if c.NeedsCredentials() && c.Store.CredentialsFile == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/routemigrate/config.toml"
			}
			return fmt.Errorf("store.credentials_file is required. Set GOOGLE_APPLICATION_CREDENTIALS, FIRESTORE_EMULATOR_HOST, or edit %s (create with 'routemigrate config init')", defaultPath)
		}
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path must be set for the sqlite backend")
		}
	default:
		return fmt.Errorf("store.backend: unsupported value %q (want %s or %s)", c.Store.Backend, BackendFirestore, BackendSQLite)
	}
	return nil
}

func (c *Config) validateCollections() error {
	names := map[string]string{
		"collections.routes": c.Collections.Routes,
		"collections.backup": c.Collections.Backup,
		"collections.stops":  c.Collections.Stops,
	}
	for key, value := range names {
		if strings.Contains(value, "/") {
			return fmt.Errorf("%s must be a single collection id, got %q", key, value)
		}
	}
	if c.Collections.Routes == c.Collections.Backup {
		return errors.New("collections.backup must differ from collections.routes")
	}
	return nil
}

func (c *Config) validateMigration() error {
	if c.Migration.BatchLimit <= 0 {
		return errors.New("migration.batch_limit must be positive")
	}
	if c.Migration.BatchLimit > MaxBatchLimit {
		return fmt.Errorf("migration.batch_limit must not exceed %d", MaxBatchLimit)
	}
	return nil
}
