package pool

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/joshu-sajeev/vid2blog/internal/blog"
)

const (
	janitorInterval    = 30 * time.Second
	defaultStopTimeout = 30 * time.Second
)

// WorkerPool runs a bounded set of executors against the queue plus a
// janitor that releases stuck entries and enforces retention.
type WorkerPool struct {
	workers      []*Worker
	queue        blog.QueueInterface
	lockDuration time.Duration
	stopTimeout  time.Duration
	wg           sync.WaitGroup
	quit         chan struct{}
	ctx          context.Context
	cancel       context.CancelFunc
}

func NewWorkerPool(count int, queue blog.QueueInterface, pipe Runner, lockDuration time.Duration) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		queue:        queue,
		lockDuration: lockDuration,
		stopTimeout:  defaultStopTimeout,
		quit:         make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}

	for i := 1; i <= count; i++ {
		p.workers = append(p.workers, NewWorker(uint(i), queue, pipe))
	}
	return p
}

func (p *WorkerPool) Start() {
	for _, w := range p.workers {
		p.wg.Add(1)
		w.Start(p.ctx, p.wg.Done)
	}

	p.wg.Add(1)
	go p.janitor()
}

// janitor periodically recovers entries whose claimant died and reaps
// completed/failed entries past their retention.
func (p *WorkerPool) janitor() {
	defer p.wg.Done()
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stuck, err := p.queue.ListStuck(p.ctx, p.lockDuration*2)
			if err != nil {
				log.Printf("[Janitor] List stuck error: %v", err)
			}
			for _, entry := range stuck {
				log.Printf("[Janitor] Releasing stuck entry %s", entry.ID)
				if err := p.queue.Release(p.ctx, entry.ID); err != nil {
					log.Printf("[Janitor] Release error: %v", err)
				}
			}

			if err := p.queue.Reap(p.ctx); err != nil {
				log.Printf("[Janitor] Reap error: %v", err)
			}
		case <-p.quit:
			return
		case <-p.ctx.Done():
			return
		}
	}
}

// Stop stops claiming new entries and waits for in-flight executions to
// finish, up to the stop timeout. Only after the drain (or its timeout)
// does it cancel the shared context, so running pipelines are not aborted
// mid-stage.
func (p *WorkerPool) Stop() {
	for _, w := range p.workers {
		w.Stop()
	}
	close(p.quit)

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(p.stopTimeout):
		log.Printf("[Pool] Drain timeout after %v, canceling in-flight work", p.stopTimeout)
	}

	p.cancel()
}
