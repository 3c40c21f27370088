package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshu-sajeev/vid2blog/internal/blog"
	"github.com/joshu-sajeev/vid2blog/internal/models"
	"gorm.io/gorm"
)

type BlogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

var _ blog.BlogRepoInterface = (*BlogRepository)(nil)

// Create inserts a new blog record. The caller assigns the ID so the queue
// entry can share it.
func (r *BlogRepository) Create(ctx context.Context, b *models.Blog) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create blog: %w", err)
	}
	return nil
}

// Get retrieves a single blog record by its ID.
func (r *BlogRepository) Get(ctx context.Context, id string) (*models.Blog, error) {
	var b models.Blog
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("blog not found: %w", err)
		}
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return &b, nil
}

// Update merges the given fields into the blog record. UpdatedAt is
// refreshed by gorm on every call. Returns a not-found error when the ID
// does not exist.
func (r *BlogRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("update blog: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("blog not found: %w", gorm.ErrRecordNotFound)
	}
	return nil
}

// List retrieves all blog records, newest first.
func (r *BlogRepository) List(ctx context.Context) ([]models.Blog, error) {
	var blogs []models.Blog
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&blogs).Error; err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	return blogs, nil
}
