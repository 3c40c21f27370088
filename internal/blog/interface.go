package blog

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joshu-sajeev/vid2blog/internal/dto"
	"github.com/joshu-sajeev/vid2blog/internal/models"
	"gorm.io/datatypes"
)

// BlogRepoInterface is the durable record store for blog entities.
type BlogRepoInterface interface {
	Create(ctx context.Context, b *models.Blog) error
	Get(ctx context.Context, id string) (*models.Blog, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	List(ctx context.Context) ([]models.Blog, error)
}

// QueueInterface is the durable work queue. Entries share their ID with the
// blog record they process.
type QueueInterface interface {
	Enqueue(ctx context.Context, id string, payload datatypes.JSON) (*models.QueueEntry, error)
	ClaimNext(ctx context.Context, workerID uint) (*models.QueueEntry, error)
	ReportProgress(ctx context.Context, id string, progress int) error
	Complete(ctx context.Context, id string, result datatypes.JSON) error
	Fail(ctx context.Context, id string, cause string) error
	GetStatus(ctx context.Context, id string) (*models.QueueEntry, error)
	Release(ctx context.Context, id string) error
	ListStuck(ctx context.Context, staleDuration time.Duration) ([]models.QueueEntry, error)
	Reap(ctx context.Context) error
}

// BlogServiceInterface defines the contract for blog business logic.
type BlogServiceInterface interface {
	Submit(ctx context.Context, req *dto.ConvertRequestDTO) (*dto.ConvertResponseDTO, error)
	GetBlogByID(ctx context.Context, id string) (*dto.BlogResponseDTO, error)
	ListBlogs(ctx context.Context) ([]dto.BlogResponseDTO, error)
	GetJobStatus(ctx context.Context, id string) (*dto.JobStatusDTO, error)
}

// BlogHandlerInterface defines the contract for HTTP request handlers.
type BlogHandlerInterface interface {
	Convert(c *gin.Context)
	Get(c *gin.Context)
	List(c *gin.Context)
	Status(c *gin.Context)
}
