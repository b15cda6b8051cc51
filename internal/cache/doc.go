// Package cache implements the in-memory temporal cache holding the live
// window of log records.
//
// # Overview
//
// Records are kept in a balanced ordered tree keyed by (timestamp, record ID),
// so range queries and expiry scans touch only the matching prefix of the
// keyspace. The record ID is assigned at ingestion and is monotonically
// increasing per process, which makes it the insertion-order tie-break for
// records sharing an exact timestamp.
//
// # Concurrency
//
// Structural mutations (Insert, DrainExpired) hold a short mutex. Queries
// take an O(1) copy-on-write clone of the tree under that mutex and then
// iterate the clone without any lock, so a slow reader never blocks
// ingestion or the eviction sweep.
//
// Usage
//
//	c := cache.New()
//	c.Insert(e)
//	for e := range c.Query(start, end) { ... }
//	expired := c.DrainExpired(time.Now().Add(-window))
package cache
