package config

import "time"

type BlogStatus string

type EntryState string

const (
	BlogStatusPending    BlogStatus = "pending"
	BlogStatusProcessing BlogStatus = "processing"
	BlogStatusCompleted  BlogStatus = "completed"
	BlogStatusFailed     BlogStatus = "failed"
)

const (
	EntryStateQueued    EntryState = "queued"
	EntryStateActive    EntryState = "active"
	EntryStateCompleted EntryState = "completed"
	EntryStateFailed    EntryState = "failed"
)

// Retry policy for queue entries: exponential backoff 5s, 10s, 20s.
const (
	MaxAttempts = 3
	BaseBackoff = 5 * time.Second
)

// Retention: completed entries kept 24h (at most the last 100), failed
// entries kept 7 days.
const (
	CompletedRetention = 24 * time.Hour
	CompletedKeepCount = 100
	FailedRetention    = 7 * 24 * time.Hour
)

const DefaultPoolSize = 5
