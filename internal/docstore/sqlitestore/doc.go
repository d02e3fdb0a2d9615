// Package sqlitestore implements docstore on a local SQLite database.
//
// Every document is one row keyed by its full path, with fields stored as
// JSON. Values JSON cannot carry natively are tagged: geo points as
// {"$geo":{"latitude":..,"longitude":..}} and timestamps as
// {"$ts":"<RFC 3339>"}. Field names starting with "$" are stored with an
// extra "$" so user data never decodes as a tag. Integers decode as int64 and
// other numbers as float64. A batch commits as one SQL transaction.
//
// The store is meant for offline runs, fixtures and CI. The schema is
// versioned; a database created by a different schema version is rejected
// with ErrSchemaMismatch rather than migrated.
package sqlitestore
