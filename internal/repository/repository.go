package repository

import (
	"context"

	"cuentos-server/internal/models"
	"cuentos-server/internal/workflow"
)

// RequestRepository is the persistence contract for story requests. Workflow
// legality is not enforced here; every status write must already have passed
// through workflow.Transition in the service layer.
type RequestRepository interface {
	Create(ctx context.Context, request *models.StoryRequest) error
	GetByRequestID(ctx context.Context, requestID string) (*models.StoryRequest, error)
	// List returns all requests ordered newest first.
	List(ctx context.Context) ([]models.StoryRequest, error)
	UpdateStatus(ctx context.Context, requestID string, status workflow.Status) error
	UpdateSelectedPlot(ctx context.Context, requestID, optionID string) error
	UpdateIllustrationStyle(ctx context.Context, requestID, style string) error
	UpdateProductionDays(ctx context.Context, requestID string, days int) error
	// Delete removes the request; plot options cascade on the request id.
	Delete(ctx context.Context, requestID string) error
}

// PlotOptionRepository is the persistence contract for plot options.
type PlotOptionRepository interface {
	// ReplaceForRequest replaces the canonical option set wholesale
	// (delete-then-insert in one transaction).
	ReplaceForRequest(ctx context.Context, requestID string, options []models.PlotOption) error
	// ListByRequestID returns the options in send order; an empty slice (not
	// an error) when none exist.
	ListByRequestID(ctx context.Context, requestID string) ([]models.PlotOption, error)
}
