package testsupport

import (
	"path/filepath"
	"testing"

	"routemigrate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a sqlite-backed config rooted in a per-test temp
// directory. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Store.Backend = config.BackendSQLite
	cfgVal.Store.SQLitePath = filepath.Join(base, "data", "routes.db")
	cfgVal.Report.Path = filepath.Join(base, "reports", "migration_report.json")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBatchLimit overrides the migration batch limit.
func WithBatchLimit(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Migration.BatchLimit = limit
	}
}

// WithFirestore switches the config to the firestore backend with a written
// service account key.
func WithFirestore(projectID string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = config.BackendFirestore
		b.cfg.Store.ProjectID = projectID
		b.cfg.Store.CredentialsFile = WriteCredentials(b.t, filepath.Join(b.baseDir, "credentials.json"))
	}
}

// WithEmulator points the firestore backend at an emulator host.
func WithEmulator(host string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = config.BackendFirestore
		b.cfg.Store.EmulatorHost = host
		b.cfg.Store.CredentialsFile = ""
		if b.cfg.Store.ProjectID == "" {
			b.cfg.Store.ProjectID = "routemigrate-test"
		}
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Report.Path))
}
