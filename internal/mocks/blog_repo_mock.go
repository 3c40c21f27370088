package mocks

import (
	"context"

	"github.com/joshu-sajeev/vid2blog/internal/models"
	"github.com/stretchr/testify/mock"
)

type BlogRepoMock struct {
	mock.Mock
}

func (m *BlogRepoMock) Create(ctx context.Context, b *models.Blog) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BlogRepoMock) Get(ctx context.Context, id string) (*models.Blog, error) {
	args := m.Called(ctx, id)

	b, _ := args.Get(0).(*models.Blog)
	return b, args.Error(1)
}

func (m *BlogRepoMock) Update(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *BlogRepoMock) List(ctx context.Context) ([]models.Blog, error) {
	args := m.Called(ctx)

	blogs, _ := args.Get(0).([]models.Blog)
	return blogs, args.Error(1)
}
