package models

import (
	"time"

	"gorm.io/datatypes"
)

// QueueEntry shares its ID with the Blog it processes. Payload is immutable
// after enqueue; only attempts, progress and lock fields mutate, and only
// under the current claimant.
type QueueEntry struct {
	ID          string         `gorm:"type:uuid;primaryKey"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	State       string         `gorm:"type:varchar(50);not null;default:'queued'"`
	Attempts    int            `gorm:"default:0;not null"`
	MaxAttempts int            `gorm:"default:3;not null"`
	Progress    int            `gorm:"default:0;not null"`
	AvailableAt time.Time      `gorm:"not null;index"`
	LockedBy    uint           `gorm:"default:0"`
	LockedAt    *time.Time
	LastError   string         `gorm:"type:text"`
	Result      datatypes.JSON `gorm:"type:jsonb"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
