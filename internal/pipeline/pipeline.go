package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joshu-sajeev/vid2blog/internal/ai"
	"github.com/joshu-sajeev/vid2blog/internal/blog"
	"github.com/joshu-sajeev/vid2blog/internal/config"
	"github.com/joshu-sajeev/vid2blog/internal/dto"
	"github.com/joshu-sajeev/vid2blog/internal/youtube"
)

const DefaultStageTimeout = 2 * time.Minute

// MetadataFetcher fetches video metadata for a video id.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (*youtube.VideoMetadata, error)
}

// TranscriptFetcher fetches the ordered caption track for a video id.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) ([]youtube.TranscriptItem, error)
}

// ContentGenerator turns a transcript into structured blog content.
type ContentGenerator interface {
	Generate(ctx context.Context, transcript, videoTitle, channelName string) (*ai.BlogContent, error)
}

// ThumbnailGenerator produces a thumbnail URL for a prompt. Implementations
// own their fallback policy and may never fail.
type ThumbnailGenerator interface {
	Generate(ctx context.Context, prompt, title string) (string, error)
}

// StageContext accumulates the outputs of prior stages for the next one.
type StageContext struct {
	BlogID       string
	VideoID      string
	YoutubeURL   string
	Metadata     *youtube.VideoMetadata
	Transcript   string
	Content      *ai.BlogContent
	ThumbnailURL string
}

// Stage is one sequential unit of the pipeline. Message is written to the
// blog record before the stage runs; Progress is reported on success.
type Stage struct {
	Name     string
	Message  string
	Progress int
	Run      func(ctx context.Context, sc *StageContext) error
}

// Result is stored on the queue entry when the pipeline completes.
type Result struct {
	BlogID string `json:"blogId"`
	Status string `json:"status"`
	Title  string `json:"title"`
}

// Pipeline runs the fixed stage sequence for one job. Stages are strictly
// sequential: each depends on the previous stage's output, so concurrency
// lives across jobs, never within one.
type Pipeline struct {
	records      blog.BlogRepoInterface
	metadata     MetadataFetcher
	transcripts  TranscriptFetcher
	content      ContentGenerator
	thumbnails   ThumbnailGenerator
	stageTimeout time.Duration
	stages       []Stage
}

func New(
	records blog.BlogRepoInterface,
	metadata MetadataFetcher,
	transcripts TranscriptFetcher,
	content ContentGenerator,
	thumbnails ThumbnailGenerator,
	stageTimeout time.Duration,
) *Pipeline {
	if stageTimeout <= 0 {
		stageTimeout = DefaultStageTimeout
	}
	p := &Pipeline{
		records:      records,
		metadata:     metadata,
		transcripts:  transcripts,
		content:      content,
		thumbnails:   thumbnails,
		stageTimeout: stageTimeout,
	}
	p.stages = p.buildStages()
	return p
}

// Run executes all stages in order. On any stage error the pipeline writes
// status=failed plus the raw error message to the blog record, then returns
// the error so the queue layer can apply its retry bookkeeping.
func (p *Pipeline) Run(ctx context.Context, payload dto.BlogJobPayload, report func(progress int)) (*Result, error) {
	sc := &StageContext{
		BlogID:     payload.BlogID,
		VideoID:    payload.VideoID,
		YoutubeURL: payload.YoutubeURL,
	}

	report(10)

	for _, stage := range p.stages {
		log.Printf("[Pipeline %s] Running stage %s", sc.BlogID, stage.Name)

		if stage.Message != "" {
			if err := p.records.Update(ctx, sc.BlogID, map[string]any{
				"status_message": stage.Message,
			}); err != nil {
				return nil, fmt.Errorf("stage %s: %w", stage.Name, err)
			}
		}

		stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
		err := stage.Run(stageCtx, sc)
		cancel()

		if err != nil {
			p.recordFailure(ctx, sc.BlogID, err)
			return nil, fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		report(stage.Progress)
	}

	title := ""
	if sc.Content != nil {
		title = sc.Content.Title
	}
	return &Result{
		BlogID: sc.BlogID,
		Status: string(config.BlogStatusCompleted),
		Title:  title,
	}, nil
}

// recordFailure writes the stage error to the blog record. The record flips
// to failed immediately even though the queue may still retry the entry; a
// successful retry re-arms it through the mark-processing stage.
func (p *Pipeline) recordFailure(ctx context.Context, blogID string, cause error) {
	if err := p.records.Update(ctx, blogID, map[string]any{
		"status":         string(config.BlogStatusFailed),
		"status_message": nil,
		"error_message":  cause.Error(),
	}); err != nil {
		log.Printf("[Pipeline %s] Failed to record stage error: %v", blogID, err)
	}
}
