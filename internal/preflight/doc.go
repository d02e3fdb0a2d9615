// Package preflight provides readiness checks for credentials and local paths
// that routemigrate depends on.
//
// The CLI runs RunAll before opening the document store. Any failed check is
// reported as a configuration error so the run stops before the first store
// call and the process exits with code 2. Checks that do not apply to the
// configured backend (credentials under the emulator or sqlite) are skipped.
package preflight
