package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"routemigrate/internal/config"
	"routemigrate/internal/docstore"
	"routemigrate/internal/geo"
	"routemigrate/internal/logging"
	"routemigrate/internal/schema"
	"routemigrate/internal/services"
)

// Auditor checks canonical routes in a store.
type Auditor struct {
	store       docstore.Store
	collections config.Collections
	resolver    geo.Resolver
	logger      *slog.Logger
}

// New returns an Auditor. A nil resolver selects geo.Heuristic; it is only
// used to judge leftover legacy coordinates.
func New(store docstore.Store, collections config.Collections, resolver geo.Resolver, logger *slog.Logger) *Auditor {
	if resolver == nil {
		resolver = geo.Heuristic{}
	}
	return &Auditor{
		store:       store,
		collections: collections,
		resolver:    resolver,
		logger:      logging.NewComponentLogger(logger, "verify"),
	}
}

// Verify audits every route. Store read failures abort verification.
func (a *Auditor) Verify(ctx context.Context) (*Report, error) {
	started := time.Now()
	ctx = services.WithPhase(services.WithRunID(ctx, uuid.NewString()), "verify")
	logger := logging.WithContext(ctx, a.logger)

	routes, err := a.store.List(ctx, a.collections.Routes)
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "verify", "list", a.collections.Routes, err)
	}

	report := &Report{Issues: []Issue{}}
	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		problems, err := a.checkRoute(ctx, route)
		if err != nil {
			return nil, err
		}
		report.Checked++
		if len(problems) > 0 {
			report.Issues = append(report.Issues, Issue{ID: route.ID, Problems: problems})
			logger.Debug("route has issues",
				logging.String(logging.FieldRouteID, route.ID),
				logging.Strings("problems", problems),
			)
		}
	}
	report.Summary = Summary{TotalRoutes: report.Checked, IssuesCount: len(report.Issues)}

	logger.Info("verification finished",
		logging.Int("checked", report.Checked),
		logging.Int("routes_with_issues", report.Summary.IssuesCount),
		logging.Duration("duration", time.Since(started)),
	)
	return report, nil
}

func (a *Auditor) checkRoute(ctx context.Context, route docstore.Document) ([]string, error) {
	var problems []string

	problems = append(problems, checkPath(route.Data[schema.FieldPath])...)
	if coords, present := route.Data[schema.FieldCoordinates]; present && coords != nil {
		problems = append(problems, a.checkCoordinates(coords)...)
	}

	routePath := docstore.DocPath(a.collections.Routes, route.ID)
	stops, err := a.store.List(ctx, docstore.SubcollectionPath(routePath, a.collections.Stops))
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "verify", "list stops", route.ID, err)
	}
	if len(stops) == 0 {
		problems = append(problems, ProblemNoStops)
	}
	for _, stop := range stops {
		if p, ok := checkStop(stop); !ok {
			problems = append(problems, p)
		}
	}

	_, found, err := a.store.Get(ctx, docstore.DocPath(a.collections.Backup, route.ID))
	if err != nil {
		return nil, services.Wrap(services.ErrStore, "verify", "get backup", route.ID, err)
	}
	if !found {
		problems = append(problems, ProblemBackupMissing)
	}
	return problems, nil
}

func checkPath(value any) []string {
	var points []any
	switch typed := value.(type) {
	case []any:
		points = typed
	case []docstore.GeoPoint:
		points = make([]any, len(typed))
		for i, p := range typed {
			points[i] = p
		}
	}
	if len(points) == 0 {
		return []string{ProblemMissingPath}
	}
	for _, p := range points {
		if !geo.IsGeoPoint(p) {
			return []string{ProblemInvalidPathPoint}
		}
	}
	return nil
}

func (a *Auditor) checkCoordinates(value any) []string {
	coords, ok := value.([]any)
	if !ok {
		return []string{ProblemCoordinatesNotArray}
	}
	if len(coords) == 0 {
		return []string{ProblemCoordinatesBadFirst}
	}
	if _, ok := a.resolver.Resolve(coords[0]); !ok {
		return []string{ProblemCoordinatesBadFirst}
	}
	return nil
}

// checkStop returns the first failing check for a stop.
func checkStop(stop docstore.Document) (string, bool) {
	if !geo.IsGeoPoint(stop.Data[schema.FieldLocation]) {
		return stopProblem(ProblemStopInvalidLocation, stop.ID), false
	}
	if !isNumeric(stop.Data[schema.FieldOrder]) {
		return stopProblem(ProblemStopInvalidOrder, stop.ID), false
	}
	return "", true
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		_, ok := geo.Number(v)
		return ok
	default:
		return false
	}
}
