package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"routemigrate/internal/config"
	"routemigrate/internal/services"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"GOOGLE_CLOUD_PROJECT",
		"GCLOUD_PROJECT",
		"FIREBASE_PROJECT_ID",
		"GOOGLE_APPLICATION_CREDENTIALS",
		"FIRESTORE_EMULATOR_HOST",
	} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadDefaultsWithEnvFallbacks(t *testing.T) {
	home := isolateEnv(t)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "transit-prod")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "~/keys/sa.json")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Store.Backend != config.BackendFirestore {
		t.Fatalf("unexpected backend: %q", cfg.Store.Backend)
	}
	if cfg.Store.ProjectID != "transit-prod" {
		t.Fatalf("expected project from env, got %q", cfg.Store.ProjectID)
	}
	if want := filepath.Join(home, "keys", "sa.json"); cfg.Store.CredentialsFile != want {
		t.Fatalf("unexpected credentials path: got %q want %q", cfg.Store.CredentialsFile, want)
	}
	if cfg.Collections.Routes != "routes" || cfg.Collections.Backup != "routes_backup" || cfg.Collections.Stops != "stops" {
		t.Fatalf("unexpected collections: %+v", cfg.Collections)
	}
	if cfg.Migration.BatchLimit != 450 {
		t.Fatalf("unexpected batch limit: %d", cfg.Migration.BatchLimit)
	}
	if cfg.Migration.BatchLimit >= config.MaxBatchLimit {
		t.Fatal("default batch limit must leave a safety margin")
	}
	if !filepath.IsAbs(cfg.Report.Path) || filepath.Base(cfg.Report.Path) != "migration_report.json" {
		t.Fatalf("unexpected report path: %q", cfg.Report.Path)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadMissingCredentialsIsConfigurationError(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "transit-prod")

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected error when credentials are missing")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "credentials_file") {
		t.Fatalf("expected credentials hint, got %q", err.Error())
	}
}

func TestLoadEmulatorBypassesCredentials(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GOOGLE_CLOUD_PROJECT", "demo-project")
	t.Setenv("FIRESTORE_EMULATOR_HOST", "localhost:8080")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.EmulatorActive() {
		t.Fatal("expected emulator to be active")
	}
	if cfg.NeedsCredentials() {
		t.Fatal("emulator mode must not require credentials")
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "routemigrate.toml")

	type payload struct {
		Store struct {
			Backend    string `toml:"backend"`
			SQLitePath string `toml:"sqlite_path"`
		} `toml:"store"`
		Collections struct {
			Routes string `toml:"routes"`
		} `toml:"collections"`
		Migration struct {
			BatchLimit int `toml:"batch_limit"`
		} `toml:"migration"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Store.Backend = "SQLite"
	custom.Store.SQLitePath = filepath.Join(tempDir, "data", "routes.db")
	custom.Collections.Routes = " lines "
	custom.Migration.BatchLimit = 100
	custom.Logging.Format = "JSON"
	custom.Logging.Level = " DEBUG "

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Store.Backend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Store.Backend)
	}
	if cfg.NeedsCredentials() {
		t.Fatal("sqlite backend must not require credentials")
	}
	if cfg.Collections.Routes != "lines" {
		t.Fatalf("expected trimmed routes collection, got %q", cfg.Collections.Routes)
	}
	if cfg.Collections.Backup != "routes_backup" {
		t.Fatalf("expected default backup collection, got %q", cfg.Collections.Backup)
	}
	if cfg.Migration.BatchLimit != 100 {
		t.Fatalf("unexpected batch limit: %d", cfg.Migration.BatchLimit)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(filepath.Dir(cfg.Store.SQLitePath)); err != nil || !info.IsDir() {
		t.Fatalf("expected sqlite directory to exist: %v", err)
	}
}

func TestOverridesApplyBeforeValidation(t *testing.T) {
	isolateEnv(t)
	credentials := filepath.Join(t.TempDir(), "sa.json")

	cfg, _, _, err := config.Load("",
		config.WithProjectID("flag-project"),
		config.WithCredentialsFile(credentials),
		config.WithProjectID("  "),
	)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Store.ProjectID != "flag-project" {
		t.Fatalf("expected project override, got %q", cfg.Store.ProjectID)
	}
	if cfg.Store.CredentialsFile != credentials {
		t.Fatalf("expected credentials override, got %q", cfg.Store.CredentialsFile)
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown backend", func(c *config.Config) { c.Store.Backend = "mongo" }, "store.backend"},
		{"missing project", func(c *config.Config) { c.Store.ProjectID = "" }, "store.project_id"},
		{"zero batch limit", func(c *config.Config) { c.Migration.BatchLimit = 0 }, "migration.batch_limit must be positive"},
		{"batch limit over cap", func(c *config.Config) { c.Migration.BatchLimit = 501 }, "must not exceed 500"},
		{"nested collection", func(c *config.Config) { c.Collections.Stops = "routes/stops" }, "collections.stops"},
		{"backup equals routes", func(c *config.Config) { c.Collections.Backup = "routes" }, "collections.backup"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Store.ProjectID = "p"
			cfg.Store.CredentialsFile = "/tmp/sa.json"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	isolateEnv(t)
	t.Setenv("FIRESTORE_EMULATOR_HOST", "localhost:8080")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "demo-project")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Migration.BatchLimit != config.Default().Migration.BatchLimit {
		t.Fatalf("sample batch limit drifted from defaults: %d", cfg.Migration.BatchLimit)
	}
}
