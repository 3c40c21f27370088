package mocks

import (
	"context"

	"github.com/joshu-sajeev/vid2blog/internal/ai"
	"github.com/joshu-sajeev/vid2blog/internal/youtube"
	"github.com/stretchr/testify/mock"
)

type MetadataFetcherMock struct {
	mock.Mock
}

func (m *MetadataFetcherMock) Fetch(ctx context.Context, videoID string) (*youtube.VideoMetadata, error) {
	args := m.Called(ctx, videoID)

	meta, _ := args.Get(0).(*youtube.VideoMetadata)
	return meta, args.Error(1)
}

type TranscriptFetcherMock struct {
	mock.Mock
}

func (m *TranscriptFetcherMock) Fetch(ctx context.Context, videoID string) ([]youtube.TranscriptItem, error) {
	args := m.Called(ctx, videoID)

	items, _ := args.Get(0).([]youtube.TranscriptItem)
	return items, args.Error(1)
}

type ContentGeneratorMock struct {
	mock.Mock
}

func (m *ContentGeneratorMock) Generate(ctx context.Context, transcript, videoTitle, channelName string) (*ai.BlogContent, error) {
	args := m.Called(ctx, transcript, videoTitle, channelName)

	content, _ := args.Get(0).(*ai.BlogContent)
	return content, args.Error(1)
}

type ThumbnailGeneratorMock struct {
	mock.Mock
}

func (m *ThumbnailGeneratorMock) Generate(ctx context.Context, prompt, title string) (string, error) {
	args := m.Called(ctx, prompt, title)
	return args.String(0), args.Error(1)
}
