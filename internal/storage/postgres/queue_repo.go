package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshu-sajeev/vid2blog/internal/blog"
	"github.com/joshu-sajeev/vid2blog/internal/config"
	"github.com/joshu-sajeev/vid2blog/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QueueRepository struct {
	db *gorm.DB
}

func NewQueueRepository(db *gorm.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

var _ blog.QueueInterface = (*QueueRepository)(nil)

// Enqueue inserts a queue entry with the caller-supplied ID. A second
// enqueue with the same ID reuses the existing slot: the insert is a no-op
// and the stored entry is returned unchanged.
func (r *QueueRepository) Enqueue(ctx context.Context, id string, payload datatypes.JSON) (*models.QueueEntry, error) {
	entry := models.QueueEntry{
		ID:          id,
		Payload:     payload,
		State:       string(config.EntryStateQueued),
		MaxAttempts: config.MaxAttempts,
		AvailableAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("enqueue entry: %w", err)
	}

	var stored models.QueueEntry
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("enqueue entry: %w", err)
	}
	return &stored, nil
}

// ClaimNext takes ownership of the oldest ready entry for workerID. Ready
// means queued with its backoff delay elapsed. Returns nil when nothing is
// ready. The claim is an optimistic conditional update, so concurrent
// workers never double-claim: losers simply move to the next candidate.
func (r *QueueRepository) ClaimNext(ctx context.Context, workerID uint) (*models.QueueEntry, error) {
	now := time.Now().UTC()

	for {
		var candidate models.QueueEntry
		err := r.db.WithContext(ctx).
			Where("state = ? AND available_at <= ?", config.EntryStateQueued, now).
			Order("created_at ASC").
			First(&candidate).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, fmt.Errorf("claim next: %w", err)
		}

		res := r.db.WithContext(ctx).Model(&models.QueueEntry{}).
			Where("id = ? AND state = ?", candidate.ID, config.EntryStateQueued).
			Updates(map[string]any{
				"state":     config.EntryStateActive,
				"locked_by": workerID,
				"locked_at": now,
			})
		if res.Error != nil {
			return nil, fmt.Errorf("claim next: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// lost the race, try the next candidate
			continue
		}

		var claimed models.QueueEntry
		if err := r.db.WithContext(ctx).First(&claimed, "id = ?", candidate.ID).Error; err != nil {
			return nil, fmt.Errorf("claim next: %w", err)
		}
		return &claimed, nil
	}
}

// ReportProgress records the claimant's progress, clamped to 0-100.
func (r *QueueRepository) ReportProgress(ctx context.Context, id string, progress int) error {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	if err := r.db.WithContext(ctx).Model(&models.QueueEntry{}).
		Where("id = ?", id).
		Update("progress", progress).Error; err != nil {
		return fmt.Errorf("report progress: %w", err)
	}
	return nil
}

// Complete marks the entry finished and stores the pipeline result. The
// entry stays visible to status reads until the reaper removes it.
func (r *QueueRepository) Complete(ctx context.Context, id string, result datatypes.JSON) error {
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).Model(&models.QueueEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"state":        config.EntryStateCompleted,
			"progress":     100,
			"result":       result,
			"locked_by":    0,
			"locked_at":    nil,
			"completed_at": now,
		}).Error; err != nil {
		return fmt.Errorf("complete entry: %w", err)
	}
	return nil
}

// Fail increments the attempt count. Below the attempt budget the entry is
// requeued with delay baseBackoff * 2^(attempts-1); otherwise it becomes
// terminal-failed and is never claimed again.
func (r *QueueRepository) Fail(ctx context.Context, id string, cause string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.QueueEntry
		if err := tx.First(&entry, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("entry not found: %w", err)
			}
			return fmt.Errorf("fail entry: %w", err)
		}

		attempts := entry.Attempts + 1
		now := time.Now().UTC()
		updates := map[string]any{
			"attempts":   attempts,
			"last_error": cause,
			"locked_by":  0,
			"locked_at":  nil,
		}

		if attempts < entry.MaxAttempts {
			delay := config.BaseBackoff * time.Duration(1<<(attempts-1))
			updates["state"] = config.EntryStateQueued
			updates["available_at"] = now.Add(delay)
		} else {
			updates["state"] = config.EntryStateFailed
			updates["completed_at"] = now
		}

		if err := tx.Model(&models.QueueEntry{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return fmt.Errorf("fail entry: %w", err)
		}
		return nil
	})
}

// GetStatus returns the entry regardless of state, until it is reaped.
func (r *QueueRepository) GetStatus(ctx context.Context, id string) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("entry not found: %w", err)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &entry, nil
}

// Release returns an active entry to the queue without spending an attempt.
// Used by the janitor when a worker died mid-claim.
func (r *QueueRepository) Release(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Model(&models.QueueEntry{}).
		Where("id = ? AND state = ?", id, config.EntryStateActive).
		Updates(map[string]any{
			"state":     config.EntryStateQueued,
			"locked_by": 0,
			"locked_at": nil,
		}).Error; err != nil {
		return fmt.Errorf("release entry: %w", err)
	}
	return nil
}

// ListStuck finds active entries whose lock is older than staleDuration.
func (r *QueueRepository) ListStuck(ctx context.Context, staleDuration time.Duration) ([]models.QueueEntry, error) {
	cutoff := time.Now().UTC().Add(-staleDuration)
	var entries []models.QueueEntry
	if err := r.db.WithContext(ctx).
		Where("state = ? AND locked_at < ?", config.EntryStateActive, cutoff).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list stuck entries: %w", err)
	}
	return entries, nil
}

// Reap applies the retention policy: completed entries older than 24h go,
// completed entries beyond the newest 100 go, failed entries older than 7
// days go.
func (r *QueueRepository) Reap(ctx context.Context) error {
	now := time.Now().UTC()

	if err := r.db.WithContext(ctx).
		Where("state = ? AND completed_at < ?",
			config.EntryStateCompleted, now.Add(-config.CompletedRetention)).
		Delete(&models.QueueEntry{}).Error; err != nil {
		return fmt.Errorf("reap completed entries: %w", err)
	}

	var overflow []string
	if err := r.db.WithContext(ctx).Model(&models.QueueEntry{}).
		Where("state = ?", config.EntryStateCompleted).
		Order("completed_at DESC").
		Offset(config.CompletedKeepCount).
		Limit(-1).
		Pluck("id", &overflow).Error; err != nil {
		return fmt.Errorf("reap completed overflow: %w", err)
	}
	if len(overflow) > 0 {
		if err := r.db.WithContext(ctx).
			Where("id IN ?", overflow).
			Delete(&models.QueueEntry{}).Error; err != nil {
			return fmt.Errorf("reap completed overflow: %w", err)
		}
	}

	if err := r.db.WithContext(ctx).
		Where("state = ? AND completed_at < ?",
			config.EntryStateFailed, now.Add(-config.FailedRetention)).
		Delete(&models.QueueEntry{}).Error; err != nil {
		return fmt.Errorf("reap failed entries: %w", err)
	}

	return nil
}
