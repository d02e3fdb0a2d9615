// Package batch groups staged document writes into bounded commits.
//
// In apply mode a Writer commits as soon as the pending count reaches its
// limit, so no commit exceeds it. In dry-run mode it only logs each intended
// write and never touches the store. Commits are independent: a failure in
// commit N+1 leaves commit N applied.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"routemigrate/internal/docstore"
	"routemigrate/internal/logging"
	"routemigrate/internal/services"
)

// DefaultLimit leaves headroom below docstore.HardBatchLimit.
const DefaultLimit = 450

// Options configures a Writer.
type Options struct {
	Limit  int
	Apply  bool
	Logger *slog.Logger
	// OnCommit runs after each successful commit with its operation count.
	OnCommit func(ops int)
}

// Stats summarizes writer activity.
type Stats struct {
	Staged    int
	Committed int
	Commits   int
	Pending   int
	DryRun    bool
}

// Writer stages writes and commits them in bounded batches. It is owned by a
// single run and is not safe for concurrent use.
type Writer struct {
	store    docstore.Store
	limit    int
	apply    bool
	logger   *slog.Logger
	onCommit func(int)

	current docstore.Batch
	pending int
	stats   Stats
	err     error
}

// NewWriter validates the limit and returns a Writer. A zero limit selects
// DefaultLimit.
func NewWriter(store docstore.Store, opts Options) (*Writer, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > docstore.HardBatchLimit {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "limit",
			fmt.Sprintf("must be between 1 and %d, got %d", docstore.HardBatchLimit, limit), nil)
	}
	if opts.Apply && store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "batch", "store", "apply mode requires a store", nil)
	}
	return &Writer{
		store:    store,
		limit:    limit,
		apply:    opts.Apply,
		logger:   logging.NewComponentLogger(opts.Logger, "batch"),
		onCommit: opts.OnCommit,
		stats:    Stats{DryRun: !opts.Apply},
	}, nil
}

// Limit returns the configured per-commit operation limit.
func (w *Writer) Limit() int { return w.limit }

// DryRun reports whether the writer only logs.
func (w *Writer) DryRun() bool { return !w.apply }

// Stage queues one write, committing when the limit is reached.
func (w *Writer) Stage(ctx context.Context, write docstore.Write) error {
	if w.err != nil {
		return w.err
	}
	if err := write.Validate(); err != nil {
		return services.Wrap(services.ErrValidation, "batch", "stage", "", err)
	}

	w.stats.Staged++
	if !w.apply {
		w.logger.Info("dry-run write",
			logging.String("op", string(write.Op)),
			logging.String("path", write.Path),
			logging.Strings("fields", fieldNames(write.Data)),
		)
		return nil
	}

	if w.current == nil {
		w.current = w.store.NewBatch()
	}
	w.current.Add(write)
	w.pending++
	w.stats.Pending = w.pending
	if w.pending >= w.limit {
		return w.commit(ctx)
	}
	return nil
}

// Flush commits any pending writes. It is a no-op in dry-run mode or when
// nothing is pending.
func (w *Writer) Flush(ctx context.Context) error {
	if w.err != nil {
		return w.err
	}
	if !w.apply || w.pending == 0 {
		return nil
	}
	return w.commit(ctx)
}

// Stats returns a snapshot of writer counters.
func (w *Writer) Stats() Stats { return w.stats }

func (w *Writer) commit(ctx context.Context) error {
	ops := w.pending
	number := w.stats.Commits + 1
	if err := w.current.Commit(ctx); err != nil {
		w.err = services.Wrap(services.ErrStore, "batch", "commit",
			fmt.Sprintf("commit #%d with %d writes", number, ops), err)
		return w.err
	}

	w.current = nil
	w.pending = 0
	w.stats.Pending = 0
	w.stats.Commits = number
	w.stats.Committed += ops
	w.logger.Info("batch committed",
		logging.Int("commit", number),
		logging.Int("writes", ops),
		logging.Int("committed_total", w.stats.Committed),
	)
	if w.onCommit != nil {
		w.onCommit(ops)
	}
	return nil
}

func fieldNames(data map[string]any) []string {
	names := make([]string, 0, len(data))
	for k := range data {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
