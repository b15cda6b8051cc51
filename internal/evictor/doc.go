// Package evictor runs the background sweep that moves expired records from
// the temporal cache into the durable store.
//
// # State machine
//
// The sweeper loops Idle -> Scanning -> Persisting -> Idle on a fixed tick
// until its context is cancelled, at which point it finishes any in-flight
// persist and transitions to Stopped. Scanning drains records older than
// now-window from the cache; Persisting hands the drained batch to the store
// as a single append.
//
// # Failure policy
//
// A failed append is retried with configurable backoff. The batch is never
// re-inserted into the cache: it already left the live window, and
// resurrection could surface expired records to queries. After the bounded
// retries are exhausted the batch is reported through the AlertHook, counted
// as lost, and the sweeper moves on so one bad batch cannot stall future
// eviction.
package evictor
