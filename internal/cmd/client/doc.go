// Package client provides the `rapidlogs` command-line client.
//
// The CLI talks to the RapidLogs HTTP endpoints to ingest and query log
// records from a terminal. It is primarily intended for developers and
// operators.
//
// # Address configuration
//
// The HTTP base URL is discovered by the application that embeds the
// commands via a BaseURLFunc. When using the standalone binary, it
// defaults to http://127.0.0.1:8080 and honors the RAPIDLOGS_HTTP
// environment variable.
//
// Usage
//
//	rapidlogs logs add --message "payment accepted" --tag billing
//	rapidlogs logs query --start 2025-09-20T12:00:00Z --end 2025-09-20T13:00:00Z
//	rapidlogs logs query --start 1726833600000 --end 1726837200000 --filter 'tag == "billing"'
//	rapidlogs logs all
//	rapidlogs logs stats
package client
