package mocks

import (
	"context"
	"time"

	"github.com/joshu-sajeev/vid2blog/internal/models"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
)

type QueueMock struct {
	mock.Mock
}

func (m *QueueMock) Enqueue(ctx context.Context, id string, payload datatypes.JSON) (*models.QueueEntry, error) {
	args := m.Called(ctx, id, payload)

	entry, _ := args.Get(0).(*models.QueueEntry)
	return entry, args.Error(1)
}

func (m *QueueMock) ClaimNext(ctx context.Context, workerID uint) (*models.QueueEntry, error) {
	args := m.Called(ctx, workerID)

	entry, _ := args.Get(0).(*models.QueueEntry)
	return entry, args.Error(1)
}

func (m *QueueMock) ReportProgress(ctx context.Context, id string, progress int) error {
	args := m.Called(ctx, id, progress)
	return args.Error(0)
}

func (m *QueueMock) Complete(ctx context.Context, id string, result datatypes.JSON) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *QueueMock) Fail(ctx context.Context, id string, cause string) error {
	args := m.Called(ctx, id, cause)
	return args.Error(0)
}

func (m *QueueMock) GetStatus(ctx context.Context, id string) (*models.QueueEntry, error) {
	args := m.Called(ctx, id)

	entry, _ := args.Get(0).(*models.QueueEntry)
	return entry, args.Error(1)
}

func (m *QueueMock) Release(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *QueueMock) ListStuck(ctx context.Context, staleDuration time.Duration) ([]models.QueueEntry, error) {
	args := m.Called(ctx, staleDuration)

	entries, _ := args.Get(0).([]models.QueueEntry)
	return entries, args.Error(1)
}

func (m *QueueMock) Reap(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
