// Package main hosts the routemigrate CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, runs
// credential preflight checks, opens the configured document store and hands
// it to the migration, audit, export and import packages. Logs go to stderr
// so JSON and GeoJSON output on stdout stays machine-readable.
//
// Exit codes: 0 on success, 2 for configuration failures (invalid config,
// missing or unreadable credentials), 1 for everything else.
package main
