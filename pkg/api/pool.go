package api

import (
	"context"
	"sync/atomic"
)

// WorkerPool bounds concurrent request processing. Table lookups are cheap
// and get a wide pool; simulations burn CPU for seconds and get a narrow
// one, so a batch of match requests cannot starve interactive queries.
type WorkerPool struct {
	querySem  chan struct{}
	simSem    chan struct{}
	activeQ   int64
	activeSim int64
	totalQ    int64
	totalSim  int64
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxQueryWorkers int // concurrent table lookups (default 100)
	MaxSimWorkers   int // concurrent simulations (default 2)
}

// NewWorkerPool creates a pool, applying defaults for zero limits.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	if config.MaxQueryWorkers <= 0 {
		config.MaxQueryWorkers = 100
	}
	if config.MaxSimWorkers <= 0 {
		config.MaxSimWorkers = 2
	}
	return &WorkerPool{
		querySem: make(chan struct{}, config.MaxQueryWorkers),
		simSem:   make(chan struct{}, config.MaxSimWorkers),
	}
}

// AcquireQuery claims a lookup slot, or fails when ctx ends first.
func (p *WorkerPool) AcquireQuery(ctx context.Context) error {
	select {
	case p.querySem <- struct{}{}:
		atomic.AddInt64(&p.activeQ, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseQuery returns a lookup slot.
func (p *WorkerPool) ReleaseQuery() {
	atomic.AddInt64(&p.activeQ, -1)
	atomic.AddInt64(&p.totalQ, 1)
	<-p.querySem
}

// AcquireSim claims a simulation slot, or fails when ctx ends first.
func (p *WorkerPool) AcquireSim(ctx context.Context) error {
	select {
	case p.simSem <- struct{}{}:
		atomic.AddInt64(&p.activeSim, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReleaseSim returns a simulation slot.
func (p *WorkerPool) ReleaseSim() {
	atomic.AddInt64(&p.activeSim, -1)
	atomic.AddInt64(&p.totalSim, 1)
	<-p.simSem
}

// PoolStats is a point-in-time snapshot for the health endpoint.
type PoolStats struct {
	ActiveQueries     int64 `json:"active_queries"`
	ActiveSimulations int64 `json:"active_simulations"`
	TotalQueries      int64 `json:"total_queries"`
	TotalSimulations  int64 `json:"total_simulations"`
	MaxQueries        int   `json:"max_queries"`
	MaxSimulations    int   `json:"max_simulations"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveQueries:     atomic.LoadInt64(&p.activeQ),
		ActiveSimulations: atomic.LoadInt64(&p.activeSim),
		TotalQueries:      atomic.LoadInt64(&p.totalQ),
		TotalSimulations:  atomic.LoadInt64(&p.totalSim),
		MaxQueries:        cap(p.querySem),
		MaxSimulations:    cap(p.simSem),
	}
}
