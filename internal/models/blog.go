package models

import (
	"time"
)

// Blog is the durable record of one conversion request. Output fields stay
// nil until the pipeline completes; ErrorMessage is set only on failure.
type Blog struct {
	ID             string  `gorm:"type:uuid;primaryKey"`
	YoutubeURL     string  `gorm:"type:text;not null"`
	YoutubeVideoID string  `gorm:"type:text;not null"`
	Title          *string `gorm:"type:text"`
	Status         string  `gorm:"type:varchar(50);not null;default:'pending'"`
	StatusMessage  *string `gorm:"type:text"`
	Content        *string `gorm:"type:text"`
	ThumbnailURL   *string `gorm:"type:text"`
	Duration       *string `gorm:"type:text"`
	ErrorMessage   *string `gorm:"type:text"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}
