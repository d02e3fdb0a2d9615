package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	routeIDKey contextKey = "route_id"
	phaseKey   contextKey = "phase"
)

// WithRunID annotates context with the identifier of the current migrate or
// verify invocation.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRouteID annotates context with the route document being processed.
func WithRouteID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, routeIDKey, id)
}

// RouteIDFromContext returns the route document id if present.
func RouteIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(routeIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithPhase annotates context with the pipeline phase (migrate, verify, ...).
func WithPhase(ctx context.Context, phase string) context.Context {
	if phase == "" {
		return ctx
	}
	return context.WithValue(ctx, phaseKey, phase)
}

// PhaseFromContext returns the phase name if present.
func PhaseFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(phaseKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
