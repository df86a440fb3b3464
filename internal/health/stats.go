package health

import (
	"sync/atomic"
	"time"

	"poupeai/statement-ingestion/internal/pipeline"
)

// Stats counts finished pipeline runs. Safe for concurrent use.
type Stats struct {
	startedAt     time.Time
	processed     atomic.Int64
	completed     atomic.Int64
	failed        atomic.Int64
	transactions  atomic.Int64
	aiCategorized atomic.Int64
	lastRunUnix   atomic.Int64
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

// Record counts one run by its final stage.
func (s *Stats) Record(result pipeline.Result, err error) {
	s.processed.Add(1)
	if err != nil || result.Final == pipeline.StageFailed {
		s.failed.Add(1)
	} else {
		s.completed.Add(1)
	}
	s.transactions.Add(int64(result.Total))
	s.aiCategorized.Add(int64(result.AICategorized))
	s.lastRunUnix.Store(time.Now().Unix())
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Processed     int64  `json:"processed"`
	Completed     int64  `json:"completed"`
	Failed        int64  `json:"failed"`
	Transactions  int64  `json:"transactions"`
	AICategorized int64  `json:"ai_categorized"`
	Uptime        string `json:"uptime"`
	LastRunAt     string `json:"last_run_at,omitempty"`
}

// Snapshot returns the current counters.
func (s *Stats) Snapshot() Snapshot {
	snap := Snapshot{
		Processed:     s.processed.Load(),
		Completed:     s.completed.Load(),
		Failed:        s.failed.Load(),
		Transactions:  s.transactions.Load(),
		AICategorized: s.aiCategorized.Load(),
		Uptime:        time.Since(s.startedAt).Round(time.Second).String(),
	}
	if last := s.lastRunUnix.Load(); last > 0 {
		snap.LastRunAt = time.Unix(last, 0).UTC().Format(time.RFC3339)
	}
	return snap
}
