// Package worker manages the download fan-out over a bounded job queue.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/casevault/courtcrawler/internal/crawler"
)

// Job is one document handed from the crawl loop to the pool.
type Job struct {
	Combination crawler.Combination
	Descriptor  crawler.PdfDescriptor
}

// Pool fans document jobs out to a fixed set of workers. Dispatch blocks
// when the queue is full, which back-pressures the crawl loop instead of
// growing memory unbounded.
type Pool struct {
	jobs      chan Job
	processor crawler.Processor
	logger    *zap.Logger

	startOnce sync.Once
	drainOnce sync.Once
	wg        sync.WaitGroup
	size      int
}

// NewPool builds a pool of size workers over a queue of the given depth.
func NewPool(size, depth int, processor crawler.Processor, logger *zap.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if depth < 1 {
		depth = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		jobs:      make(chan Job, depth),
		processor: processor,
		logger:    logger,
		size:      size,
	}
}

// Start launches the workers. Safe to call once; Dispatch before Start
// simply queues.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.size; i++ {
			p.wg.Add(1)
			go p.run(i)
		}
	})
}

// Dispatch enqueues a job, blocking while the queue is full. It returns
// false when ctx ends before the job is accepted.
func (p *Pool) Dispatch(ctx context.Context, combo crawler.Combination, desc crawler.PdfDescriptor) bool {
	select {
	case p.jobs <- Job{Combination: combo, Descriptor: desc}:
		return true
	case <-ctx.Done():
		return false
	}
}

// Drain closes the queue and waits for every accepted job to finish.
func (p *Pool) Drain() {
	p.drainOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		// Accepted jobs run to completion even after the crawl is canceled,
		// so a partially fetched document is never abandoned mid-upload.
		if err := p.processor.Process(context.Background(), job.Combination, job.Descriptor); err != nil {
			p.logger.Warn("document processing failed",
				zap.Int("worker", id),
				zap.String("combination", job.Combination.Label()),
				zap.String("url", job.Descriptor.PdfURL),
				zap.String("kind", crawler.KindOf(err).String()),
				zap.Error(err),
			)
		}
	}
}
