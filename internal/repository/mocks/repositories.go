package mocks

import (
	"context"

	"cuentos-server/internal/models"
	"cuentos-server/internal/workflow"

	"github.com/stretchr/testify/mock"
)

// Mock RequestRepository
type RequestRepository struct {
	mock.Mock
}

func (m *RequestRepository) Create(ctx context.Context, request *models.StoryRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *RequestRepository) GetByRequestID(ctx context.Context, requestID string) (*models.StoryRequest, error) {
	args := m.Called(ctx, requestID)
	req, _ := args.Get(0).(*models.StoryRequest)
	return req, args.Error(1)
}

func (m *RequestRepository) List(ctx context.Context) ([]models.StoryRequest, error) {
	args := m.Called(ctx)
	requests, _ := args.Get(0).([]models.StoryRequest)
	return requests, args.Error(1)
}

func (m *RequestRepository) UpdateStatus(ctx context.Context, requestID string, status workflow.Status) error {
	args := m.Called(ctx, requestID, status)
	return args.Error(0)
}

func (m *RequestRepository) UpdateSelectedPlot(ctx context.Context, requestID, optionID string) error {
	args := m.Called(ctx, requestID, optionID)
	return args.Error(0)
}

func (m *RequestRepository) UpdateIllustrationStyle(ctx context.Context, requestID, style string) error {
	args := m.Called(ctx, requestID, style)
	return args.Error(0)
}

func (m *RequestRepository) UpdateProductionDays(ctx context.Context, requestID string, days int) error {
	args := m.Called(ctx, requestID, days)
	return args.Error(0)
}

func (m *RequestRepository) Delete(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

// Mock PlotOptionRepository
type PlotOptionRepository struct {
	mock.Mock
}

func (m *PlotOptionRepository) ReplaceForRequest(ctx context.Context, requestID string, options []models.PlotOption) error {
	args := m.Called(ctx, requestID, options)
	return args.Error(0)
}

func (m *PlotOptionRepository) ListByRequestID(ctx context.Context, requestID string) ([]models.PlotOption, error) {
	args := m.Called(ctx, requestID)
	options, _ := args.Get(0).([]models.PlotOption)
	return options, args.Error(1)
}
