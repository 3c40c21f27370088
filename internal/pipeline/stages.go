package pipeline

import (
	"context"
	"fmt"

	"github.com/joshu-sajeev/vid2blog/internal/config"
	"github.com/joshu-sajeev/vid2blog/internal/youtube"
)

// buildStages assembles the fixed stage sequence with its progress
// checkpoints: 20, 40, 60, 80, 90, 100 (10 is reported before the first
// stage runs).
func (p *Pipeline) buildStages() []Stage {
	return []Stage{
		{
			Name:     "mark-processing",
			Message:  "Starting blog generation...",
			Progress: 20,
			Run:      p.markProcessing,
		},
		{
			Name:     "fetch-metadata",
			Message:  "Fetching video metadata...",
			Progress: 40,
			Run:      p.fetchMetadata,
		},
		{
			Name:     "fetch-transcript",
			Message:  "Fetching video transcript...",
			Progress: 60,
			Run:      p.fetchTranscript,
		},
		{
			Name:     "generate-content",
			Message:  "Generating blog content with AI...",
			Progress: 80,
			Run:      p.generateContent,
		},
		{
			Name:     "generate-asset",
			Message:  "Generating thumbnail image...",
			Progress: 90,
			Run:      p.generateAsset,
		},
		{
			Name:     "finalize",
			Message:  "Finalizing blog post...",
			Progress: 100,
			Run:      p.finalize,
		},
	}
}

// markProcessing flips the record to processing. It also clears any
// error message left by a previous failed attempt, so a retried entry
// re-arms the record.
func (p *Pipeline) markProcessing(ctx context.Context, sc *StageContext) error {
	return p.records.Update(ctx, sc.BlogID, map[string]any{
		"status":        string(config.BlogStatusProcessing),
		"error_message": nil,
	})
}

func (p *Pipeline) fetchMetadata(ctx context.Context, sc *StageContext) error {
	meta, err := p.metadata.Fetch(ctx, sc.VideoID)
	if err != nil {
		return err
	}
	sc.Metadata = meta
	return nil
}

func (p *Pipeline) fetchTranscript(ctx context.Context, sc *StageContext) error {
	items, err := p.transcripts.Fetch(ctx, sc.VideoID)
	if err != nil {
		return err
	}
	sc.Transcript = youtube.FormatTranscript(items)
	return nil
}

func (p *Pipeline) generateContent(ctx context.Context, sc *StageContext) error {
	content, err := p.content.Generate(ctx, sc.Transcript, sc.Metadata.Title, sc.Metadata.ChannelTitle)
	if err != nil {
		return err
	}
	sc.Content = content
	return nil
}

func (p *Pipeline) generateAsset(ctx context.Context, sc *StageContext) error {
	url, err := p.thumbnails.Generate(ctx, sc.Content.ThumbnailPrompt, sc.Content.Title)
	if err != nil {
		return fmt.Errorf("generate thumbnail: %w", err)
	}
	sc.ThumbnailURL = url
	return nil
}

// finalize writes all outputs and flips the record to completed. The
// transient status message is cleared here: completed records keep no
// progress text.
func (p *Pipeline) finalize(ctx context.Context, sc *StageContext) error {
	return p.records.Update(ctx, sc.BlogID, map[string]any{
		"title":          sc.Content.Title,
		"content":        sc.Content.Content,
		"thumbnail_url":  sc.ThumbnailURL,
		"duration":       sc.Metadata.Duration,
		"status":         string(config.BlogStatusCompleted),
		"status_message": nil,
	})
}
