package services_test

import (
	"context"
	"testing"

	"routemigrate/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithRouteID(ctx, "linea-1")
	ctx = services.WithPhase(ctx, "migrate")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if id, ok := services.RouteIDFromContext(ctx); !ok || id != "linea-1" {
		t.Fatalf("unexpected route id: %v %v", id, ok)
	}
	if phase, ok := services.PhaseFromContext(ctx); !ok || phase != "migrate" {
		t.Fatalf("unexpected phase: %v %v", phase, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPhase(ctx, "")
	ctx = services.WithRouteID(ctx, "")
	if _, ok := services.PhaseFromContext(ctx); ok {
		t.Fatal("expected no phase value")
	}
	if _, ok := services.RouteIDFromContext(ctx); ok {
		t.Fatal("expected no route id value")
	}
}
