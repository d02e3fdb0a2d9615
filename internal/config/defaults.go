package config

const (
	BackendFirestore = "firestore"
	BackendSQLite    = "sqlite"

	// MaxBatchLimit is the provider's hard cap on operations per commit.
	MaxBatchLimit = 500

	defaultBackend          = BackendFirestore
	defaultSQLitePath       = "~/.local/share/routemigrate/routes.db"
	defaultRoutesCollection = "routes"
	defaultBackupCollection = "routes_backup"
	defaultStopsCollection  = "stops"
	defaultBatchLimit       = 450
	defaultReportPath       = "migration_report.json"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogMaxSizeMB     = 10
	defaultLogMaxBackups    = 7
	defaultLogMaxAgeDays    = 7
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Store: Store{
			Backend:    defaultBackend,
			SQLitePath: defaultSQLitePath,
		},
		Collections: Collections{
			Routes: defaultRoutesCollection,
			Backup: defaultBackupCollection,
			Stops:  defaultStopsCollection,
		},
		Migration: Migration{
			BatchLimit: defaultBatchLimit,
		},
		Report: Report{
			Path: defaultReportPath,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
