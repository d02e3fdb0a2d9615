// Package migration upgrades legacy route documents to the canonical schema.
//
// A run lists the source collection and handles documents one at a time in
// listing order. Each document stages a merge of its canonical route, one
// create per stop and, when both apply and backup are requested, a merge of
// the raw legacy record into the backup collection. All writes flow through a
// batch.Writer.
//
// The first failure aborts the run. Batches committed before the failure stay
// applied; nothing is rolled back. Stops are created with fresh ids on every
// run, so applying twice over the same source doubles each route's stops.
// Concurrent runs against the same collections are not coordinated.
package migration
