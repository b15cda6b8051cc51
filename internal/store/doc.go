// Package store implements the durable, append-only home for log records
// evicted from the temporal cache.
//
// # Overview
//
// The store is the system of record for anything older than the retention
// window. The eviction sweeper is its only writer; query gateways read from
// it for historical lookups. Records are persisted in Pebble under
// lexicographically ordered keys so range reads are a single bounded scan:
//   - logs/e/{ts_ns_be8}/{id_16} (records)
//   - logs/m                     (meta: appended count, last eviction ms)
//
// Values are encoded as: evictedAt(8B BE ms) | varint tagLen | tag | message
// | crc32c(tag|message).
//
// # Exactly-once
//
// Append commits one Pebble batch per call, so a batch is either fully
// visible or not at all. Keys embed the record ID assigned at ingestion,
// which makes a retried Append after an ambiguous commit failure overwrite
// the same keys instead of duplicating records.
package store
