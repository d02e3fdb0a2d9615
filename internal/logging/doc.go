// Package logging assembles structured slog loggers and formatting helpers used
// across routemigrate.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing (including size-based rotation of the optional log file), and
// exposes context-aware helpers so pipeline code can automatically tag log
// lines with run IDs, route document IDs, and phases. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape and routing guarantees as the rest of the tool.
package logging
