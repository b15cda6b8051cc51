// Package id provides a 128-bit, lexicographically sortable identifier
// assigned to every ingested log record.
//
// # Format
//
// The ID is 16 bytes big-endian: [8 bytes ms_timestamp][8 bytes sequence].
// Byte-wise comparison preserves assignment order, so the ID doubles as the
// insertion-order tie-break for records sharing an exact log timestamp and
// as a unique key suffix in the durable store.
//
// # Monotonicity
//
// The Generator ensures per-process monotonicity:
//   - If the system clock regresses, it pins to the last seen millisecond and
//     keeps incrementing the sequence.
//   - If the sequence would overflow within a millisecond, it waits for the
//     next millisecond before emitting the next ID.
//
// Usage
//
//	g := id.NewGenerator()
//	recordID := g.Next()
//	b := recordID.Bytes()   // 16-byte representation
//	s := recordID.String()  // hex string
package id
