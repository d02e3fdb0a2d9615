package audit

import "strings"

// Problem tags.
const (
	ProblemMissingPath         = "missing_or_empty_path"
	ProblemInvalidPathPoint    = "invalid_path_point"
	ProblemCoordinatesNotArray = "coordinates_not_array"
	ProblemCoordinatesBadFirst = "coordinates_invalid_first_point"
	ProblemNoStops             = "no_stops"
	ProblemStopInvalidLocation = "stop_invalid_location"
	ProblemStopInvalidOrder    = "stop_invalid_order"
	ProblemBackupMissing       = "backup_missing"
)

const stopProblemSeparator = ":"

// Report is the persisted verification result.
type Report struct {
	Checked int     `json:"checked"`
	Issues  []Issue `json:"issues"`
	Summary Summary `json:"summary"`
}

// Issue lists the problems found on one route document.
type Issue struct {
	ID       string   `json:"id"`
	Problems []string `json:"problems"`
}

// Summary aggregates report totals. IssuesCount is the number of routes with
// at least one problem.
type Summary struct {
	TotalRoutes int `json:"totalRoutes"`
	IssuesCount int `json:"issuesCount"`
}

// Clean reports whether no route has problems.
func (r *Report) Clean() bool {
	return r == nil || len(r.Issues) == 0
}

// ProblemCounts tallies tags across all issues, folding stop tags onto their
// base tag.
func (r *Report) ProblemCounts() map[string]int {
	counts := make(map[string]int)
	if r == nil {
		return counts
	}
	for _, issue := range r.Issues {
		for _, p := range issue.Problems {
			counts[BaseTag(p)]++
		}
	}
	return counts
}

// BaseTag strips the stop id suffix from a per-stop tag.
func BaseTag(problem string) string {
	base, _, _ := strings.Cut(problem, stopProblemSeparator)
	return base
}

func stopProblem(tag, stopID string) string {
	return tag + stopProblemSeparator + stopID
}
