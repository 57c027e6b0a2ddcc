// Package orchestrator drives the scan loop: every tick, fan the configured
// symbols out across a worker pool and forward results to the journal sinks.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"perpgate/internal/journal"
	"perpgate/internal/pipeline"
	"perpgate/internal/safe"
	"perpgate/internal/worker"
)

type Orchestrator struct {
	Symbols    []string
	Pipeline   *pipeline.Pipeline
	Sink       journal.Sink
	Workers    int
	ScanPeriod time.Duration

	isScanning int32
	cron       *cron.Cron
}

func New(symbols []string, p *pipeline.Pipeline, sink journal.Sink, workers int, scanPeriod time.Duration) *Orchestrator {
	return &Orchestrator{
		Symbols:    symbols,
		Pipeline:   p,
		Sink:       sink,
		Workers:    workers,
		ScanPeriod: scanPeriod,
	}
}

// Start schedules Tick on a cron spec derived from ScanPeriod and blocks
// until ctx is cancelled.
func (o *Orchestrator) Start(ctx context.Context) {
	o.cron = cron.New()
	spec := fmt.Sprintf("@every %s", o.ScanPeriod)
	if _, err := o.cron.AddFunc(spec, func() { o.Tick(ctx) }); err != nil {
		log.Fatalf("❌ [Orchestrator] invalid scan interval %s: %v", spec, err)
	}
	o.cron.Start()
	log.Printf("✅ [Orchestrator] scanning %d symbols every %s", len(o.Symbols), o.ScanPeriod)

	<-ctx.Done()
	log.Println("🔄 [Orchestrator] shutting down cron")
	stopCtx := o.cron.Stop()
	<-stopCtx.Done()
}

// Tick runs one scan across all symbols. It is reentrancy-guarded: an
// overrunning tick is skipped rather than stacked.
func (o *Orchestrator) Tick(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&o.isScanning, 0, 1) {
		log.Println("⏳ [Orchestrator] previous tick still running, skipping")
		return
	}
	defer atomic.StoreInt32(&o.isScanning, 0)

	defer safe.RecoverAndLog("Orchestrator.Tick")

	start := time.Now()
	pool := worker.NewPool(ctx, o.Workers, o.Pipeline)
	pool.Start()
	for _, sym := range o.Symbols {
		pool.AddJob(sym)
	}
	results := pool.Wait()

	for _, r := range results {
		o.Sink.Record(r.Entry)
	}
	log.Printf("✅ [Orchestrator] tick complete: %d symbols in %s", len(o.Symbols), time.Since(start))
}
