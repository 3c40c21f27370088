package dto

// BlogJobPayload is the queue entry payload. It carries everything the
// pipeline needs so a worker never has to re-parse the submitted URL.
type BlogJobPayload struct {
	BlogID     string `json:"blogId" validate:"required"`
	VideoID    string `json:"videoId" validate:"required"`
	YoutubeURL string `json:"youtubeUrl" validate:"required"`
}

type QueueStatusDTO struct {
	State     string `json:"state"`
	Progress  int    `json:"progress"`
	Attempts  int    `json:"attempts"`
	LastError string `json:"lastError,omitempty"`
}

// JobStatusDTO correlates the durable blog record with the live queue
// state. Queue is nil once the entry has been reaped.
type JobStatusDTO struct {
	Record BlogResponseDTO `json:"record"`
	Queue  *QueueStatusDTO `json:"queue,omitempty"`
}
