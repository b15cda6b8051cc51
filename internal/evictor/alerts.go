package evictor

import (
	"time"

	"github.com/spuerta10/RapidLogs/internal/cache"
)

// AlertHook is an optional callback invoked when the evictor gives up on a
// batch after exhausting its retry budget. Implementations may page an
// operator, spill the batch to a side channel, or emit metrics.
type AlertHook interface {
	BatchLost(batch []cache.Entry, evictedAt time.Time, err error)
}

type noopAlerts struct{}

func (noopAlerts) BatchLost([]cache.Entry, time.Time, error) {}
