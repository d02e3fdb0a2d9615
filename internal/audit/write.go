package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"routemigrate/internal/fileutil"
)

const (
	lockRetryDelay   = 50 * time.Millisecond
	reportPermission = 0o644
)

// WriteReport persists the report as indented JSON. The file is replaced
// atomically while holding an advisory lock on path+".lock", so concurrent
// writers never interleave.
func WriteReport(ctx context.Context, path string, report *Report) error {
	if report == nil {
		return fmt.Errorf("write report: nil report")
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire report lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire report lock: %s is held by another process", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	return fileutil.WriteFileAtomic(path, data, reportPermission)
}

// ReadReport loads a previously written report.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
