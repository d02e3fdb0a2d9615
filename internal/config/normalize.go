package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeCollections()
	if err := c.normalizeReport(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeStore() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultBackend
	}
	c.Store.ProjectID = strings.TrimSpace(c.Store.ProjectID)
	if c.Store.ProjectID == "" {
		c.Store.ProjectID = firstEnv("GOOGLE_CLOUD_PROJECT", "GCLOUD_PROJECT", "FIREBASE_PROJECT_ID")
	}
	c.Store.EmulatorHost = strings.TrimSpace(c.Store.EmulatorHost)
	if c.Store.EmulatorHost == "" {
		c.Store.EmulatorHost = firstEnv("FIRESTORE_EMULATOR_HOST")
	}
	c.Store.CredentialsFile = strings.TrimSpace(c.Store.CredentialsFile)
	if c.Store.CredentialsFile == "" {
		c.Store.CredentialsFile = firstEnv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	var err error
	if c.Store.CredentialsFile, err = expandPath(c.Store.CredentialsFile); err != nil {
		return fmt.Errorf("store.credentials_file: %w", err)
	}
	if strings.TrimSpace(c.Store.SQLitePath) == "" {
		c.Store.SQLitePath = defaultSQLitePath
	}
	if c.Store.SQLitePath, err = expandPath(c.Store.SQLitePath); err != nil {
		return fmt.Errorf("store.sqlite_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeCollections() {
	c.Collections.Routes = trimOrDefault(c.Collections.Routes, defaultRoutesCollection)
	c.Collections.Backup = trimOrDefault(c.Collections.Backup, defaultBackupCollection)
	c.Collections.Stops = trimOrDefault(c.Collections.Stops, defaultStopsCollection)
}

func (c *Config) normalizeReport() error {
	var err error
	c.Report.Path = trimOrDefault(c.Report.Path, defaultReportPath)
	if c.Report.Path, err = expandPath(c.Report.Path); err != nil {
		return fmt.Errorf("report.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
	return nil
}

func trimOrDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
