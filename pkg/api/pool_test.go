package api

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestWorkerPoolDefaults(t *testing.T) {
	p := NewWorkerPool(PoolConfig{})
	stats := p.Stats()
	if stats.MaxQueries != 100 {
		t.Errorf("MaxQueries = %d, want 100", stats.MaxQueries)
	}
	if stats.MaxSimulations != 2 {
		t.Errorf("MaxSimulations = %d, want 2", stats.MaxSimulations)
	}
}

func TestWorkerPoolAcquireRelease(t *testing.T) {
	p := NewWorkerPool(PoolConfig{MaxQueryWorkers: 2, MaxSimWorkers: 1})
	ctx := context.Background()

	if err := p.AcquireQuery(ctx); err != nil {
		t.Fatalf("AcquireQuery: %v", err)
	}
	if got := p.Stats().ActiveQueries; got != 1 {
		t.Errorf("active queries = %d, want 1", got)
	}
	p.ReleaseQuery()

	stats := p.Stats()
	if stats.ActiveQueries != 0 {
		t.Errorf("active queries after release = %d, want 0", stats.ActiveQueries)
	}
	if stats.TotalQueries != 1 {
		t.Errorf("total queries = %d, want 1", stats.TotalQueries)
	}
}

func TestWorkerPoolBlocksWhenFull(t *testing.T) {
	p := NewWorkerPool(PoolConfig{MaxQueryWorkers: 10, MaxSimWorkers: 1})

	if err := p.AcquireSim(context.Background()); err != nil {
		t.Fatalf("AcquireSim: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := p.AcquireSim(ctx); err == nil {
		t.Error("second AcquireSim succeeded with the pool full")
	}

	p.ReleaseSim()
	if err := p.AcquireSim(context.Background()); err != nil {
		t.Errorf("AcquireSim after release: %v", err)
	}
	p.ReleaseSim()
}

func TestWorkerPoolConcurrentUse(t *testing.T) {
	p := NewWorkerPool(PoolConfig{MaxQueryWorkers: 4, MaxSimWorkers: 1})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.AcquireQuery(ctx); err != nil {
				t.Errorf("AcquireQuery: %v", err)
				return
			}
			p.ReleaseQuery()
		}()
	}
	wg.Wait()

	stats := p.Stats()
	if stats.ActiveQueries != 0 {
		t.Errorf("active queries after drain = %d, want 0", stats.ActiveQueries)
	}
	if stats.TotalQueries != 50 {
		t.Errorf("total queries = %d, want 50", stats.TotalQueries)
	}
}
