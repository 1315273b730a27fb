package mocks

import (
	"context"
	"time"

	"cuentos-server/internal/models"
	"cuentos-server/internal/payment"
	"cuentos-server/internal/service"
	"cuentos-server/internal/workflow"

	"github.com/stretchr/testify/mock"
)

// Mock email.Sender
type EmailSender struct {
	mock.Mock
}

func (m *EmailSender) Send(ctx context.Context, to, subject, html string) error {
	args := m.Called(ctx, to, subject, html)
	return args.Error(0)
}

// Mock payment.Gateway
type PaymentGateway struct {
	mock.Mock
}

func (m *PaymentGateway) CreateCheckout(ctx context.Context, req payment.CheckoutRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// Mock service.RequestService
type RequestService struct {
	mock.Mock
}

func (m *RequestService) SubmitIntake(ctx context.Context, form models.IntakeForm) (*models.StoryRequest, error) {
	args := m.Called(ctx, form)
	request, _ := args.Get(0).(*models.StoryRequest)
	return request, args.Error(1)
}

func (m *RequestService) ListRequests(ctx context.Context) ([]models.StoryRequest, error) {
	args := m.Called(ctx)
	requests, _ := args.Get(0).([]models.StoryRequest)
	return requests, args.Error(1)
}

func (m *RequestService) GetRequest(ctx context.Context, requestID string) (*models.StoryRequest, error) {
	args := m.Called(ctx, requestID)
	request, _ := args.Get(0).(*models.StoryRequest)
	return request, args.Error(1)
}

func (m *RequestService) GetPlotOptions(ctx context.Context, requestID string) ([]models.PlotOption, error) {
	args := m.Called(ctx, requestID)
	options, _ := args.Get(0).([]models.PlotOption)
	return options, args.Error(1)
}

func (m *RequestService) DeleteRequest(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

func (m *RequestService) SendPlotOptions(ctx context.Context, requestID string, inputs []service.PlotOptionInput, resend bool) error {
	args := m.Called(ctx, requestID, inputs, resend)
	return args.Error(0)
}

func (m *RequestService) SelectPlot(ctx context.Context, requestID string, input service.SelectPlotInput) error {
	args := m.Called(ctx, requestID, input)
	return args.Error(0)
}

func (m *RequestService) SendPaymentLink(ctx context.Context, requestID, optionID string) error {
	args := m.Called(ctx, requestID, optionID)
	return args.Error(0)
}

func (m *RequestService) ConfirmPayment(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

func (m *RequestService) AdvanceStatus(ctx context.Context, requestID string, ev workflow.Event) error {
	args := m.Called(ctx, requestID, ev)
	return args.Error(0)
}

func (m *RequestService) SetProductionDays(ctx context.Context, requestID string, days int) error {
	args := m.Called(ctx, requestID, days)
	return args.Error(0)
}

func (m *RequestService) EstimatedDelivery(ctx context.Context, requestID string) (time.Time, error) {
	args := m.Called(ctx, requestID)
	delivery, _ := args.Get(0).(time.Time)
	return delivery, args.Error(1)
}

func (m *RequestService) CreateCheckout(ctx context.Context, requestID string) (string, error) {
	args := m.Called(ctx, requestID)
	return args.String(0), args.Error(1)
}

// Mock messaging.ChangePublisher
type ChangePublisher struct {
	mock.Mock
}

func (m *ChangePublisher) PublishChange(ctx context.Context, event models.ChangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
