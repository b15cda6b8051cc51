package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/spuerta10/RapidLogs/internal/runtime"
	logsvc "github.com/spuerta10/RapidLogs/internal/services/logs"
)

// LogsController handles log ingest and query endpoints.
type LogsController struct {
	rt  *runtime.Runtime
	svc *logsvc.Service
}

// NewLogsController creates a new logs controller.
func NewLogsController(rt *runtime.Runtime, svc *logsvc.Service) *LogsController {
	return &LogsController{rt: rt, svc: svc}
}

// RegisterRoutes registers log routes with the given mux.
//
// This method sets up HTTP endpoints for:
// - Ingest (POST /v1/logs)
// - Range queries (GET /v1/logs?start=&end=&filter=)
// - Full dumps (GET /v1/logs/all)
// - Node stats (GET /v1/stats)
func (c *LogsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/logs", c.handleLogs)
	mux.HandleFunc("/v1/logs/all", c.handleQueryAll)
	mux.HandleFunc("/v1/stats", c.handleStats)
}

func (c *LogsController) handleLogs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		c.handleIngest(w, r)
	case http.MethodGet:
		c.handleQuery(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleIngest accepts a single record object or a JSON array of records.
//
// Returns 201 Created with the accepted records, IDs assigned.
func (c *LogsController) handleIngest(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	recs, ok := decodeIngestBody(body)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	out, err := c.svc.Ingest(r.Context(), recs)
	if err != nil {
		if errors.Is(err, logsvc.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to ingest records")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{"records": out, "count": len(out)})
}

// decodeIngestBody accepts either one record object or an array of them.
func decodeIngestBody(body []byte) ([]logsvc.IngestRecord, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, false
	}
	if trimmed[0] == '[' {
		var recs []logsvc.IngestRecord
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, false
		}
		return recs, true
	}
	var rec logsvc.IngestRecord
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, false
	}
	return []logsvc.IngestRecord{rec}, true
}

// handleQuery returns records in [start, end], both bounds required.
func (c *LogsController) handleQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	startMs, okStart := parseTimestamp(q.Get("start"))
	endMs, okEnd := parseTimestamp(q.Get("end"))
	if !okStart || !okEnd {
		writeError(w, http.StatusBadRequest, "start and end are required (ms or RFC3339)")
		return
	}
	recs, err := c.svc.Query(r.Context(), time.UnixMilli(startMs).UTC(), time.UnixMilli(endMs).UTC(), q.Get("filter"))
	if err != nil {
		if errors.Is(err, logsvc.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to query records")
		return
	}
	writeJSON(w, map[string]any{"records": recs, "count": len(recs)})
}

func (c *LogsController) handleQueryAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	recs, err := c.svc.QueryAll(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		if errors.Is(err, logsvc.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to query records")
		return
	}
	writeJSON(w, map[string]any{"records": recs, "count": len(recs)})
}

func (c *LogsController) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	info, err := c.svc.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to collect stats")
		return
	}
	writeJSON(w, info)
}
