package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/joshu-sajeev/vid2blog/internal/ai"
	"github.com/joshu-sajeev/vid2blog/internal/config"
	"github.com/joshu-sajeev/vid2blog/internal/dto"
	"github.com/joshu-sajeev/vid2blog/internal/mocks"
	"github.com/joshu-sajeev/vid2blog/internal/models"
	"github.com/joshu-sajeev/vid2blog/internal/youtube"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeRecordStore accumulates Update field maps so tests can inspect the
// record exactly as the pipeline left it.
type fakeRecordStore struct {
	mu     sync.Mutex
	fields map[string]map[string]any
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{fields: map[string]map[string]any{}}
}

func (s *fakeRecordStore) Create(ctx context.Context, b *models.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields[b.ID] = map[string]any{"status": b.Status}
	return nil
}

func (s *fakeRecordStore) Get(ctx context.Context, id string) (*models.Blog, error) {
	return nil, fmt.Errorf("blog not found")
}

func (s *fakeRecordStore) Update(ctx context.Context, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged, ok := s.fields[id]
	if !ok {
		merged = map[string]any{}
		s.fields[id] = merged
	}
	for k, v := range fields {
		merged[k] = v
	}
	return nil
}

func (s *fakeRecordStore) List(ctx context.Context) ([]models.Blog, error) {
	return nil, nil
}

func (s *fakeRecordStore) field(id, key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields[id][key]
}

func testPayload() dto.BlogJobPayload {
	return dto.BlogJobPayload{
		BlogID:     "11111111-1111-1111-1111-111111111111",
		VideoID:    "abc123",
		YoutubeURL: "https://youtu.be/abc123",
	}
}

func happyMocks() (*mocks.MetadataFetcherMock, *mocks.TranscriptFetcherMock, *mocks.ContentGeneratorMock, *mocks.ThumbnailGeneratorMock) {
	meta := new(mocks.MetadataFetcherMock)
	meta.On("Fetch", mock.Anything, "abc123").Return(&youtube.VideoMetadata{
		VideoID:      "abc123",
		Title:        "A Video",
		ThumbnailURL: "https://i.ytimg.com/vi/abc123/hqdefault.jpg",
		Duration:     "12:34",
		ChannelTitle: "A Channel",
	}, nil)

	transcripts := new(mocks.TranscriptFetcherMock)
	transcripts.On("Fetch", mock.Anything, "abc123").Return([]youtube.TranscriptItem{
		{Text: "hello", OffsetMs: 0, DurationMs: 1000},
		{Text: "world", OffsetMs: 1000, DurationMs: 1000},
	}, nil)

	content := new(mocks.ContentGeneratorMock)
	content.On("Generate", mock.Anything, "hello world", "A Video", "A Channel").
		Return(&ai.BlogContent{
			Title:           "A Blog Post",
			Content:         "# A Blog Post\n\nBody.",
			ThumbnailPrompt: "a scenic mountain",
		}, nil)

	thumbnails := new(mocks.ThumbnailGeneratorMock)
	thumbnails.On("Generate", mock.Anything, "a scenic mountain", "A Blog Post").
		Return("https://images.example.com/thumb.png", nil)

	return meta, transcripts, content, thumbnails
}

func TestPipeline_AllStagesSucceed(t *testing.T) {
	store := newFakeRecordStore()
	meta, transcripts, content, thumbnails := happyMocks()
	p := New(store, meta, transcripts, content, thumbnails, time.Minute)

	var progress []int
	result, err := p.Run(context.Background(), testPayload(), func(pct int) {
		progress = append(progress, pct)
	})
	require.NoError(t, err)

	id := testPayload().BlogID
	assert.Equal(t, []int{10, 20, 40, 60, 80, 90, 100}, progress)
	assert.Equal(t, string(config.BlogStatusCompleted), store.field(id, "status"))
	assert.Nil(t, store.field(id, "status_message"), "status message is cleared on completion")
	assert.Equal(t, "A Blog Post", store.field(id, "title"))
	assert.Equal(t, "# A Blog Post\n\nBody.", store.field(id, "content"))
	assert.Equal(t, "https://images.example.com/thumb.png", store.field(id, "thumbnail_url"))
	assert.Equal(t, "12:34", store.field(id, "duration"))

	require.NotNil(t, result)
	assert.Equal(t, id, result.BlogID)
	assert.Equal(t, string(config.BlogStatusCompleted), result.Status)
	assert.Equal(t, "A Blog Post", result.Title)
}

func TestPipeline_MetadataAccessErrorAborts(t *testing.T) {
	store := newFakeRecordStore()
	meta := new(mocks.MetadataFetcherMock)
	meta.On("Fetch", mock.Anything, "abc123").
		Return(nil, &youtube.AccessError{Msg: "quota exceeded"})
	transcripts := new(mocks.TranscriptFetcherMock)
	content := new(mocks.ContentGeneratorMock)
	thumbnails := new(mocks.ThumbnailGeneratorMock)

	p := New(store, meta, transcripts, content, thumbnails, time.Minute)

	_, err := p.Run(context.Background(), testPayload(), func(int) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch-metadata")
	assert.Contains(t, err.Error(), "quota exceeded")

	id := testPayload().BlogID
	assert.Equal(t, string(config.BlogStatusFailed), store.field(id, "status"))
	assert.Contains(t, store.field(id, "error_message"), "quota exceeded")
	assert.Nil(t, store.field(id, "status_message"))
	assert.Nil(t, store.field(id, "title"), "no output fields on failure")
	assert.Nil(t, store.field(id, "content"))

	transcripts.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	content.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_ThumbnailFallbackStillCompletes(t *testing.T) {
	store := newFakeRecordStore()
	meta, transcripts, content, _ := happyMocks()

	// the thumbnail collaborator owns its fallback: it hands back a
	// placeholder URL instead of an error
	thumbnails := new(mocks.ThumbnailGeneratorMock)
	thumbnails.On("Generate", mock.Anything, "a scenic mountain", "A Blog Post").
		Return(ai.PlaceholderURL("A Blog Post"), nil)

	p := New(store, meta, transcripts, content, thumbnails, time.Minute)

	_, err := p.Run(context.Background(), testPayload(), func(int) {})
	require.NoError(t, err)

	id := testPayload().BlogID
	assert.Equal(t, string(config.BlogStatusCompleted), store.field(id, "status"))
	assert.Contains(t, store.field(id, "thumbnail_url"), "placehold.co")
}

func TestPipeline_RetryAfterFailureRearmsRecord(t *testing.T) {
	store := newFakeRecordStore()
	id := testPayload().BlogID

	// first attempt: metadata fails, record flips to failed immediately
	meta := new(mocks.MetadataFetcherMock)
	meta.On("Fetch", mock.Anything, "abc123").
		Return(nil, &youtube.AccessError{Msg: "quota exceeded"}).Once()
	_, transcripts, content, thumbnails := happyMocks()

	p := New(store, meta, transcripts, content, thumbnails, time.Minute)
	_, err := p.Run(context.Background(), testPayload(), func(int) {})
	require.Error(t, err)
	assert.Equal(t, string(config.BlogStatusFailed), store.field(id, "status"))

	// retry attempt: mark-processing clears the stale failure, then the
	// run completes
	meta.On("Fetch", mock.Anything, "abc123").Return(&youtube.VideoMetadata{
		VideoID:      "abc123",
		Title:        "A Video",
		Duration:     "12:34",
		ChannelTitle: "A Channel",
	}, nil)

	_, err = p.Run(context.Background(), testPayload(), func(int) {})
	require.NoError(t, err)
	assert.Equal(t, string(config.BlogStatusCompleted), store.field(id, "status"))
	assert.Nil(t, store.field(id, "error_message"))
}

func TestPipeline_StageTimeout(t *testing.T) {
	store := newFakeRecordStore()

	meta := new(mocks.MetadataFetcherMock)
	meta.On("Fetch", mock.Anything, "abc123").
		Return(nil, context.DeadlineExceeded).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		})
	transcripts := new(mocks.TranscriptFetcherMock)
	content := new(mocks.ContentGeneratorMock)
	thumbnails := new(mocks.ThumbnailGeneratorMock)

	p := New(store, meta, transcripts, content, thumbnails, 20*time.Millisecond)

	start := time.Now()
	_, err := p.Run(context.Background(), testPayload(), func(int) {})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, string(config.BlogStatusFailed), store.field(testPayload().BlogID, "status"))
}
