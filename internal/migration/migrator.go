package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"routemigrate/internal/batch"
	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
	"routemigrate/internal/logging"
	"routemigrate/internal/schema"
	"routemigrate/internal/services"
)

// Mode selects whether writes reach the store and whether backups are kept.
type Mode struct {
	Apply  bool
	Backup bool
}

// Summary describes a finished or aborted run.
type Summary struct {
	RunID           string        `json:"run_id"`
	Processed       int           `json:"processed"`
	Staged          int           `json:"staged_writes"`
	Committed       int           `json:"committed_writes"`
	Commits         int           `json:"commits"`
	Stops           int           `json:"stops"`
	DryRun          bool          `json:"dry_run"`
	Backup          bool          `json:"backup"`
	LastCommittedID string        `json:"last_committed_id,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// Options configures a Migrator.
type Options struct {
	Collections config.Collections
	BatchLimit  int
	Normalizer  *schema.Normalizer
	Logger      *slog.Logger
}

// Migrator runs the migration over one store. The store handle is injected
// and owned by the caller.
type Migrator struct {
	store       docstore.Store
	collections config.Collections
	batchLimit  int
	normalizer  *schema.Normalizer
	base        *slog.Logger
	logger      *slog.Logger
}

// New returns a Migrator. Zero-valued options fall back to defaults.
func New(store docstore.Store, opts Options) *Migrator {
	collections := opts.Collections
	defaults := config.Default().Collections
	if collections.Routes == "" {
		collections.Routes = defaults.Routes
	}
	if collections.Backup == "" {
		collections.Backup = defaults.Backup
	}
	if collections.Stops == "" {
		collections.Stops = defaults.Stops
	}
	normalizer := opts.Normalizer
	if normalizer == nil {
		normalizer = schema.NewNormalizer(nil)
	}
	return &Migrator{
		store:       store,
		collections: collections,
		batchLimit:  opts.BatchLimit,
		normalizer:  normalizer,
		base:        opts.Logger,
		logger:      logging.NewComponentLogger(opts.Logger, "migrate"),
	}
}

// Run migrates every document in the routes collection. On failure the
// returned summary reflects progress up to the failing document.
func (m *Migrator) Run(ctx context.Context, mode Mode) (Summary, error) {
	started := time.Now()
	runID := uuid.NewString()
	ctx = services.WithPhase(services.WithRunID(ctx, runID), "migrate")
	logger := logging.WithContext(ctx, m.logger)

	summary := Summary{RunID: runID, DryRun: !mode.Apply, Backup: mode.Apply && mode.Backup}
	if mode.Backup && !mode.Apply {
		logging.WarnWithContext(logger, "backup ignored in dry-run", "backup_ignored",
			logging.String(logging.FieldErrorHint, "pass --apply together with --backup"),
			logging.String(logging.FieldImpact, "no backup documents will be written"),
		)
	}

	var cp checkpoint
	writer, err := batch.NewWriter(m.store, batch.Options{
		Limit:    m.batchLimit,
		Apply:    mode.Apply,
		Logger:   logging.WithContext(ctx, m.base),
		OnCommit: cp.commit,
	})
	if err != nil {
		return summary, err
	}
	finish := func() {
		stats := writer.Stats()
		summary.Staged = stats.Staged
		summary.Committed = stats.Committed
		summary.Commits = stats.Commits
		summary.LastCommittedID = cp.last()
		summary.Duration = time.Since(started)
	}

	docs, err := m.store.List(ctx, m.collections.Routes)
	if err != nil {
		finish()
		return summary, services.Wrap(services.ErrStore, "migrate", "list", m.collections.Routes, err)
	}
	logger.Info("migration started",
		logging.Int("documents", len(docs)),
		logging.Bool("apply", mode.Apply),
		logging.Bool("backup", summary.Backup),
		logging.Int("batch_limit", writer.Limit()),
	)

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			finish()
			return summary, err
		}
		switch outcome := m.migrateDocument(ctx, writer, doc, summary.Backup).(type) {
		case Failed:
			finish()
			logging.ErrorWithContext(logger, "migration aborted", "migration_failed",
				logging.String(logging.FieldRouteID, outcome.ID),
				logging.Int("processed", summary.Processed),
				logging.String("last_committed_id", summary.LastCommittedID),
				logging.String(logging.FieldErrorHint, "run verify to find partially migrated routes"),
				logging.Error(outcome.Err),
			)
			return summary, outcome.Err
		case Staged:
			summary.Processed++
			summary.Stops += outcome.Stops
			cp.staged(outcome.ID, writer.Stats().Staged)
		}
	}

	if err := writer.Flush(ctx); err != nil {
		finish()
		return summary, err
	}
	finish()

	logger.Info("migration finished",
		logging.Int("processed", summary.Processed),
		logging.Int("staged_writes", summary.Staged),
		logging.Int("commits", summary.Commits),
		logging.Bool("dry_run", summary.DryRun),
		logging.Duration("duration", summary.Duration),
	)
	return summary, nil
}

func (m *Migrator) migrateDocument(ctx context.Context, writer *batch.Writer, doc docstore.Document, backup bool) Outcome {
	ctx = services.WithRouteID(ctx, doc.ID)
	route, stops := m.normalizer.Normalize(doc.Data, doc.ID)
	routePath := docstore.DocPath(m.collections.Routes, doc.ID)

	writes := make([]docstore.Write, 0, len(stops)+2)
	writes = append(writes, docstore.Write{Op: docstore.OpMerge, Path: routePath, Data: route.Fields()})
	stopsPath := docstore.SubcollectionPath(routePath, m.collections.Stops)
	for _, stop := range stops {
		writes = append(writes, docstore.Write{Op: docstore.OpCreate, Path: stopsPath, Data: stop.Fields()})
	}
	if backup {
		writes = append(writes, docstore.Write{
			Op:   docstore.OpMerge,
			Path: docstore.DocPath(m.collections.Backup, doc.ID),
			Data: doc.Data,
		})
	}

	for _, w := range writes {
		if err := writer.Stage(ctx, w); err != nil {
			return Failed{ID: doc.ID, Err: classify(doc.ID, err)}
		}
	}
	logging.WithContext(ctx, m.logger).Debug("document staged",
		logging.Int("writes", len(writes)),
		logging.Int("path_points", len(route.Path)),
		logging.Int("stops", len(stops)),
	)
	return Staged{ID: doc.ID, Writes: len(writes), Stops: len(stops)}
}

func classify(id string, err error) error {
	if errors.Is(err, services.ErrStore) || errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrConfiguration) {
		return fmt.Errorf("route %s: %w", id, err)
	}
	return services.Wrap(services.ErrStore, "migrate", "route "+id, "", err)
}
