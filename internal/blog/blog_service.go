package blog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/joshu-sajeev/vid2blog/common"
	"github.com/joshu-sajeev/vid2blog/internal/config"
	"github.com/joshu-sajeev/vid2blog/internal/dto"
	"github.com/joshu-sajeev/vid2blog/internal/models"
	"github.com/joshu-sajeev/vid2blog/internal/youtube"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BlogService struct {
	repo  BlogRepoInterface
	queue QueueInterface
}

func NewBlogService(repo BlogRepoInterface, queue QueueInterface) *BlogService {
	return &BlogService{repo: repo, queue: queue}
}

var _ BlogServiceInterface = (*BlogService)(nil)

// Submit validates the YouTube URL, creates a pending blog record and
// enqueues a matching queue entry sharing the record's ID. Validation
// failures are rejected before any record is created.
func (s *BlogService) Submit(ctx context.Context, req *dto.ConvertRequestDTO) (*dto.ConvertResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request canceled or timed out")
	}

	videoID, err := youtube.ExtractVideoID(req.YoutubeURL)
	if err != nil {
		return nil, common.NewAPIError(
			http.StatusBadRequest,
			"invalid YouTube URL",
			map[string]any{"provided": req.YoutubeURL},
		)
	}

	b := models.Blog{
		ID:             uuid.New().String(),
		YoutubeURL:     req.YoutubeURL,
		YoutubeVideoID: videoID,
		Status:         string(config.BlogStatusPending),
	}

	if err := s.repo.Create(ctx, &b); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			return nil, common.Errf(http.StatusRequestTimeout, "request was canceled")
		case errors.Is(err, context.DeadlineExceeded):
			return nil, common.Errf(http.StatusRequestTimeout, "request timeout")
		default:
			return nil, common.Errf(http.StatusInternalServerError, "failed to create blog record")
		}
	}

	payload, err := json.Marshal(dto.BlogJobPayload{
		BlogID:     b.ID,
		VideoID:    videoID,
		YoutubeURL: req.YoutubeURL,
	})
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to build job payload")
	}

	entry, err := s.queue.Enqueue(ctx, b.ID, datatypes.JSON(payload))
	if err != nil {
		return nil, common.Errf(http.StatusInternalServerError, "failed to enqueue job")
	}

	return &dto.ConvertResponseDTO{
		ID:     b.ID,
		JobID:  entry.ID,
		Status: string(config.BlogStatusPending),
	}, nil
}

// GetBlogByID retrieves one blog record.
func (s *BlogService) GetBlogByID(ctx context.Context, id string) (*dto.BlogResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "blog not found", "failed to get blog")
	}

	resp := toBlogResponse(b)
	return &resp, nil
}

// ListBlogs retrieves all blog records, newest first.
func (s *BlogService) ListBlogs(ctx context.Context) ([]dto.BlogResponseDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	blogs, err := s.repo.List(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
		}
		return nil, common.Errf(http.StatusInternalServerError, "failed to list blogs")
	}

	dtos := make([]dto.BlogResponseDTO, len(blogs))
	for i := range blogs {
		dtos[i] = toBlogResponse(&blogs[i])
	}
	return dtos, nil
}

// GetJobStatus correlates the durable blog record with the live queue
// entry. A missing queue entry is expected for reaped jobs: only the record
// is returned then.
func (s *BlogService) GetJobStatus(ctx context.Context, id string) (*dto.JobStatusDTO, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Errf(http.StatusRequestTimeout, "request timed out")
	}

	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "job not found", "failed to get job status")
	}

	status := &dto.JobStatusDTO{Record: toBlogResponse(b)}

	entry, err := s.queue.GetStatus(ctx, id)
	if err == nil {
		status.Queue = &dto.QueueStatusDTO{
			State:     entry.State,
			Progress:  entry.Progress,
			Attempts:  entry.Attempts,
			LastError: entry.LastError,
		}
	} else if !isNotFound(err) {
		return nil, common.Errf(http.StatusInternalServerError, "failed to get job status")
	}

	return status, nil
}

func toBlogResponse(b *models.Blog) dto.BlogResponseDTO {
	return dto.BlogResponseDTO{
		ID:             b.ID,
		YoutubeURL:     b.YoutubeURL,
		YoutubeVideoID: b.YoutubeVideoID,
		Title:          b.Title,
		Status:         b.Status,
		StatusMessage:  b.StatusMessage,
		Content:        b.Content,
		ThumbnailURL:   b.ThumbnailURL,
		Duration:       b.Duration,
		ErrorMessage:   b.ErrorMessage,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) ||
		strings.Contains(err.Error(), "not found")
}

func mapLookupErr(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return common.Errf(http.StatusRequestTimeout, "request timed out")
	}
	if isNotFound(err) {
		return common.Errf(http.StatusNotFound, "%s", notFoundMsg)
	}
	return common.Errf(http.StatusInternalServerError, "%s", internalMsg)
}
