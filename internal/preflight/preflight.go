package preflight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"routemigrate/internal/config"
	"routemigrate/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if cfg.NeedsCredentials() {
		results = append(results, CheckCredentialsFile("Credentials", cfg.Store.CredentialsFile))
	}

	if cfg.Store.Backend == config.BackendSQLite {
		results = append(results, CheckDirectoryAccess("SQLite directory", filepath.Dir(cfg.Store.SQLitePath)))
	}

	results = append(results, CheckDirectoryAccess("Report directory", filepath.Dir(cfg.Report.Path)))

	return results
}

// Err folds failed results into a single configuration error, or nil when
// every check passed.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", "", strings.Join(failed, "; "), errors.New("preflight checks failed"))
}
