// Package worker fans a scan tick out across symbols with a bounded pool,
// one goroutine never touching more than one symbol's rolling-derivatives
// key at a time.
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"

	"perpgate/internal/journal"
	"perpgate/internal/pipeline"
	"perpgate/internal/safe"
)

type Result struct {
	Entry journal.Entry
	Price float64
}

type Pool struct {
	workers  int
	jobs     chan string
	results  chan Result
	wg       sync.WaitGroup
	pipeline *pipeline.Pipeline
	ctx      context.Context
}

func NewPool(ctx context.Context, workers int, p *pipeline.Pipeline) *Pool {
	return &Pool{
		workers:  workers,
		jobs:     make(chan string, 256),
		results:  make(chan Result, 256),
		pipeline: p,
		ctx:      ctx,
	}
}

func (p *Pool) Start() {
	log.Printf("🔄 [Worker Pool] starting %d workers", p.workers)
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

func (p *Pool) worker(id int) {
	defer safe.RecoverAndLog(fmt.Sprintf("Worker %d", id))
	defer p.wg.Done()

	for symbol := range p.jobs {
		var entry journal.Entry
		var price float64
		err := safe.Run(fmt.Sprintf("Worker %d processing %s", id, symbol), func() error {
			var runErr error
			entry, price, runErr = p.pipeline.RunSymbol(p.ctx, symbol)
			return runErr
		})
		if err != nil {
			log.Printf("⚠️  [Worker %d] %s: %v", id, symbol, err)
			p.results <- Result{Entry: journal.Entry{
				Symbol: symbol, Stage: journal.StageFetch, Reason: "fetch_error",
				Context: map[string]any{"error": err.Error()},
			}}
			continue
		}
		p.results <- Result{Entry: entry, Price: price}
	}
}

func (p *Pool) AddJob(symbol string) {
	p.jobs <- symbol
}

// Wait closes the job queue and blocks until every worker drains it,
// returning every result produced this tick.
func (p *Pool) Wait() []Result {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)

	out := make([]Result, 0, len(p.jobs))
	for r := range p.results {
		out = append(out, r)
	}
	return out
}
