package mocks

import (
	"context"

	"github.com/joshu-sajeev/vid2blog/internal/dto"
	"github.com/stretchr/testify/mock"
)

type BlogServiceMock struct {
	mock.Mock
}

func (m *BlogServiceMock) Submit(ctx context.Context, req *dto.ConvertRequestDTO) (*dto.ConvertResponseDTO, error) {
	args := m.Called(ctx, req)

	resp, _ := args.Get(0).(*dto.ConvertResponseDTO)
	return resp, args.Error(1)
}

func (m *BlogServiceMock) GetBlogByID(ctx context.Context, id string) (*dto.BlogResponseDTO, error) {
	args := m.Called(ctx, id)

	resp, _ := args.Get(0).(*dto.BlogResponseDTO)
	return resp, args.Error(1)
}

func (m *BlogServiceMock) ListBlogs(ctx context.Context) ([]dto.BlogResponseDTO, error) {
	args := m.Called(ctx)

	blogs, _ := args.Get(0).([]dto.BlogResponseDTO)
	return blogs, args.Error(1)
}

func (m *BlogServiceMock) GetJobStatus(ctx context.Context, id string) (*dto.JobStatusDTO, error) {
	args := m.Called(ctx, id)

	status, _ := args.Get(0).(*dto.JobStatusDTO)
	return status, args.Error(1)
}
