package dto

import "time"

type ConvertRequestDTO struct {
	YoutubeURL string `json:"youtubeUrl" validate:"required,url"`
}

type ConvertResponseDTO struct {
	ID     string `json:"id"`
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type BlogResponseDTO struct {
	ID             string    `json:"id"`
	YoutubeURL     string    `json:"youtubeUrl"`
	YoutubeVideoID string    `json:"youtubeVideoId"`
	Title          *string   `json:"title"`
	Status         string    `json:"status"`
	StatusMessage  *string   `json:"statusMessage"`
	Content        *string   `json:"content"`
	ThumbnailURL   *string   `json:"thumbnailUrl"`
	Duration       *string   `json:"duration"`
	ErrorMessage   *string   `json:"errorMessage"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
