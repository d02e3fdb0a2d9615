package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"routemigrate/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Store selects and bootstraps the document store backend.
type Store struct {
	Backend         string `toml:"backend"`
	ProjectID       string `toml:"project_id"`
	CredentialsFile string `toml:"credentials_file"`
	EmulatorHost    string `toml:"emulator_host"`
	SQLitePath      string `toml:"sqlite_path"`
}

// Collections names the source/destination, backup, and stop collections.
type Collections struct {
	Routes string `toml:"routes"`
	Backup string `toml:"backup"`
	Stops  string `toml:"stops"`
}

// Migration contains write batching settings.
type Migration struct {
	// BatchLimit is the number of staged writes that triggers a commit. It is
	// kept below MaxBatchLimit to leave a safety margin.
	BatchLimit int `toml:"batch_limit"`
}

// Report contains settings for the verification report artifact.
type Report struct {
	Path string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Config encapsulates all configuration values for routemigrate.
//
// Configuration sections by subsystem:
//   - Store: backend selection plus project, credential, and emulator settings
//   - Collections: route, backup, and stop collection names
//   - Migration: batch writer limits
//   - Report: verification report location
//   - Logging: log format, level, and optional rotated log file
type Config struct {
	Store       Store       `toml:"store"`
	Collections Collections `toml:"collections"`
	Migration   Migration   `toml:"migration"`
	Report      Report      `toml:"report"`
	Logging     Logging     `toml:"logging"`
}

// Override mutates a decoded config before normalization and validation. The
// CLI uses overrides to apply flags such as --project and --credentials.
type Override func(*Config)

// WithProjectID overrides store.project_id when id is non-empty.
func WithProjectID(id string) Override {
	return func(c *Config) {
		if id = strings.TrimSpace(id); id != "" {
			c.Store.ProjectID = id
		}
	}
}

// WithCredentialsFile overrides store.credentials_file when path is non-empty.
func WithCredentialsFile(path string) Override {
	return func(c *Config) {
		if path = strings.TrimSpace(path); path != "" {
			c.Store.CredentialsFile = path
		}
	}
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/routemigrate/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. Every returned error is classified as
// services.ErrConfiguration.
func Load(path string, overrides ...Override) (*Config, string, bool, error) {
	cfg, resolvedPath, exists, err := load(path, overrides)
	if err != nil {
		return nil, "", false, fmt.Errorf("%w: %w", services.ErrConfiguration, err)
	}
	return cfg, resolvedPath, exists, nil
}

func load(path string, overrides []Override) (*Config, string, bool, error) {
	if err := loadDotEnv(); err != nil {
		return nil, "", false, err
	}

	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	for _, override := range overrides {
		if override != nil {
			override(&cfg)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// loadDotEnv reads ./.env when present. Existing environment variables win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("routemigrate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EmulatorActive reports whether store access targets a Firestore emulator.
// Credential loading is bypassed in that case.
func (c *Config) EmulatorActive() bool {
	return strings.TrimSpace(c.Store.EmulatorHost) != ""
}

// NeedsCredentials reports whether the configured backend requires a
// credential file before the store can be opened.
func (c *Config) NeedsCredentials() bool {
	return c.Store.Backend == BackendFirestore && !c.EmulatorActive()
}

// EnsureDirectories creates parent directories for local artifacts.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Report.Path)}
	if c.Store.Backend == BackendSQLite {
		dirs = append(dirs, filepath.Dir(c.Store.SQLitePath))
	}
	if strings.TrimSpace(c.Logging.File) != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
