// Package docstore defines the hierarchical document store that routemigrate
// reads legacy routes from and writes canonical routes to.
//
// A store holds collections of documents addressed by slash-separated paths
// ("routes/abc", "routes/abc/stops/xyz"). Documents carry schemaless field
// maps; the only typed value the pipeline depends on is GeoPoint. Writes are
// grouped into batches that commit atomically, at most HardBatchLimit
// operations per commit.
//
// Backends live in subpackages: memstore for tests, sqlitestore for local
// runs, and firestore for Cloud Firestore and its emulator.
package docstore
