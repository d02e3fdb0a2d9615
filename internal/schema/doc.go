// Package schema maps legacy route documents onto the canonical route and
// stop shapes.
//
// Normalize is pure: it reads a legacy field map and returns drafts, leaving
// writing to the caller. Unresolvable points are dropped silently; an empty
// path or missing stop location is left for the audit to surface.
package schema
