// Package serverrun contains the shared bootstrap for starting a RapidLogs
// node: it opens the runtime, starts the HTTP gateway and the background
// evictor, and blocks until shutdown.
package serverrun
