// Package services defines shared utilities consumed by the migration and
// verification pipeline.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, route document IDs, and phase names
//     for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into configuration problems (exit code 2) and store failures (exit
//     code 1).
//
// Use these helpers when wiring new pipeline steps so operational behaviour
// (error classification, observability) stays uniform.
package services
