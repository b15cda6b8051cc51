// Package logsvc provides ingest and query operations over the temporal
// cache and the durable store. Queries merge live cache records with
// already-evicted records so callers see one time-ordered view, optionally
// narrowed by a CEL filter expression.
package logsvc
