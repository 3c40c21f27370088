package pool

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/joshu-sajeev/vid2blog/internal/blog"
	"github.com/joshu-sajeev/vid2blog/internal/dto"
	"github.com/joshu-sajeev/vid2blog/internal/models"
	"github.com/joshu-sajeev/vid2blog/internal/pipeline"
	"gorm.io/datatypes"
)

// Runner is the stage pipeline as the pool sees it.
type Runner interface {
	Run(ctx context.Context, payload dto.BlogJobPayload, report func(progress int)) (*pipeline.Result, error)
}

type Worker struct {
	ID    uint
	queue blog.QueueInterface
	pipe  Runner
	quit  chan struct{}
}

func NewWorker(id uint, queue blog.QueueInterface, pipe Runner) *Worker {
	return &Worker{ID: id, queue: queue, pipe: pipe, quit: make(chan struct{})}
}

// Start runs the claim loop until Stop or ctx cancellation. Idle polling
// backs off exponentially from 1s to 60s and resets after a claim.
func (w *Worker) Start(ctx context.Context, done func()) {
	go func() {
		defer done()

		currentDelay := 1 * time.Second
		maxDelay := 60 * time.Second

		for {
			entry, err := w.queue.ClaimNext(ctx, w.ID)
			if err != nil {
				log.Printf("[Worker %d] Claim error: %v", w.ID, err)
			}

			if entry != nil {
				w.process(ctx, entry)
				currentDelay = 1 * time.Second
			} else {
				currentDelay = min(currentDelay*2, maxDelay)
			}

			select {
			case <-time.After(currentDelay):
			case <-w.quit:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// process runs the pipeline for one claimed entry. Pipeline failures have
// already been written to the blog record; here only the queue's own retry
// bookkeeping happens.
func (w *Worker) process(ctx context.Context, entry *models.QueueEntry) {
	log.Printf("[Worker %d] Processing entry %s (attempt %d)", w.ID, entry.ID, entry.Attempts+1)

	var payload dto.BlogJobPayload
	if err := json.Unmarshal(entry.Payload, &payload); err != nil {
		log.Printf("[Worker %d] Entry %s has malformed payload: %v", w.ID, entry.ID, err)
		if failErr := w.queue.Fail(ctx, entry.ID, fmt.Sprintf("malformed payload: %v", err)); failErr != nil {
			log.Printf("[Worker %d] Fail bookkeeping error: %v", w.ID, failErr)
		}
		return
	}

	result, err := w.pipe.Run(ctx, payload, func(progress int) {
		if reportErr := w.queue.ReportProgress(ctx, entry.ID, progress); reportErr != nil {
			log.Printf("[Worker %d] Progress report error: %v", w.ID, reportErr)
		}
	})

	if err != nil {
		log.Printf("[Worker %d] Entry %s failed: %v", w.ID, entry.ID, err)
		if failErr := w.queue.Fail(ctx, entry.ID, err.Error()); failErr != nil {
			log.Printf("[Worker %d] Fail bookkeeping error: %v", w.ID, failErr)
		}
		return
	}

	b, _ := json.Marshal(result)
	if err := w.queue.Complete(ctx, entry.ID, datatypes.JSON(b)); err != nil {
		log.Printf("[Worker %d] Complete bookkeeping error: %v", w.ID, err)
		return
	}

	log.Printf("[Worker %d] Entry %s completed", w.ID, entry.ID)
}

func (w *Worker) Stop() { close(w.quit) }
