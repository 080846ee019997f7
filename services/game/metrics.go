package game

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// Metrics exposes engine counters for the observability endpoint
type Metrics struct {
	Submissions       atomic.Int64
	Accepted          atomic.Int64
	Rejected          atomic.Int64
	Timeouts          atomic.Int64
	ConcurrencyAborts atomic.Int64
	GamesStarted      atomic.Int64
	GamesFinished     atomic.Int64
}

// Snapshot returns the current counter values as a JSON-friendly map
func (m *Metrics) Snapshot() gin.H {
	return gin.H{
		"submissions":        m.Submissions.Load(),
		"accepted":           m.Accepted.Load(),
		"rejected":           m.Rejected.Load(),
		"timeouts":           m.Timeouts.Load(),
		"concurrency_aborts": m.ConcurrencyAborts.Load(),
		"games_started":      m.GamesStarted.Load(),
		"games_finished":     m.GamesFinished.Load(),
	}
}
