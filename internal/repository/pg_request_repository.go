package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cuentos-server/internal/models"
	"cuentos-server/internal/workflow"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check
var _ RequestRepository = (*pgRequestRepository)(nil)

type pgRequestRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPgRequestRepository creates a PostgreSQL-backed RequestRepository.
func NewPgRequestRepository(db *pgxpool.Pool, logger *zap.Logger) RequestRepository {
	return &pgRequestRepository{
		db:     db,
		logger: logger.Named("PgRequestRepo"),
	}
}

const requestColumns = `request_id, name, email, child_name, child_age, story_theme,
	special_interests, additional_details, status, selected_plot,
	illustration_style, production_days, form_data, created_at`

func (r *pgRequestRepository) Create(ctx context.Context, request *models.StoryRequest) error {
	query := `
        INSERT INTO story_requests
            (request_id, name, email, child_name, child_age, story_theme,
             special_interests, additional_details, status, selected_plot,
             illustration_style, production_days, form_data, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `
	formData, err := json.Marshal(request.FormData)
	if err != nil {
		return fmt.Errorf("failed to encode form snapshot for %s: %w", request.RequestID, err)
	}

	logFields := []zap.Field{zap.String("requestID", request.RequestID)}
	r.logger.Debug("Creating story request", logFields...)

	_, err = r.db.Exec(ctx, query,
		request.RequestID,
		request.Name,
		request.Email,
		request.ChildName,
		request.ChildAge,
		request.StoryTheme,
		request.SpecialInterests,
		request.AdditionalDetails,
		string(request.Status),
		request.SelectedPlot,
		request.IllustrationStyle,
		request.ProductionDays,
		formData,
		request.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create story request", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create story request %s: %w", request.RequestID, err)
	}
	r.logger.Info("Story request created", logFields...)
	return nil
}

func (r *pgRequestRepository) GetByRequestID(ctx context.Context, requestID string) (*models.StoryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM story_requests WHERE request_id = $1`

	row := r.db.QueryRow(ctx, query, requestID)
	request, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Story request not found", zap.String("requestID", requestID))
			return nil, models.ErrRequestNotFound
		}
		r.logger.Error("Failed to get story request", zap.String("requestID", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to get story request %s: %w", requestID, err)
	}
	return request, nil
}

func (r *pgRequestRepository) List(ctx context.Context) ([]models.StoryRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM story_requests ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list story requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list story requests: %w", err)
	}
	defer rows.Close()

	requests := make([]models.StoryRequest, 0)
	for rows.Next() {
		request, err := scanRequest(rows)
		if err != nil {
			r.logger.Error("Failed to scan story request row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan story request row: %w", err)
		}
		requests = append(requests, *request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate story request rows: %w", err)
	}
	return requests, nil
}

func (r *pgRequestRepository) UpdateStatus(ctx context.Context, requestID string, status workflow.Status) error {
	query := `UPDATE story_requests SET status = $2 WHERE request_id = $1`
	return r.execExpectingRow(ctx, query, "update status", requestID, string(status))
}

func (r *pgRequestRepository) UpdateSelectedPlot(ctx context.Context, requestID, optionID string) error {
	query := `UPDATE story_requests SET selected_plot = $2 WHERE request_id = $1`
	return r.execExpectingRow(ctx, query, "update selected plot", requestID, optionID)
}

func (r *pgRequestRepository) UpdateIllustrationStyle(ctx context.Context, requestID, style string) error {
	query := `UPDATE story_requests SET illustration_style = $2 WHERE request_id = $1`
	return r.execExpectingRow(ctx, query, "update illustration style", requestID, style)
}

func (r *pgRequestRepository) UpdateProductionDays(ctx context.Context, requestID string, days int) error {
	query := `UPDATE story_requests SET production_days = $2 WHERE request_id = $1`
	return r.execExpectingRow(ctx, query, "update production days", requestID, days)
}

func (r *pgRequestRepository) Delete(ctx context.Context, requestID string) error {
	// Options are removed by the ON DELETE CASCADE relation.
	query := `DELETE FROM story_requests WHERE request_id = $1`
	return r.execExpectingRow(ctx, query, "delete", requestID)
}

// execExpectingRow runs a single-row mutation and maps a zero-row result to
// ErrRequestNotFound.
func (r *pgRequestRepository) execExpectingRow(ctx context.Context, query, action, requestID string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, append([]any{requestID}, args...)...)
	if err != nil {
		r.logger.Error("Story request mutation failed",
			zap.String("action", action), zap.String("requestID", requestID), zap.Error(err))
		return fmt.Errorf("failed to %s for story request %s: %w", action, requestID, err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn("Story request mutation matched no rows",
			zap.String("action", action), zap.String("requestID", requestID))
		return models.ErrRequestNotFound
	}
	r.logger.Debug("Story request mutation applied",
		zap.String("action", action), zap.String("requestID", requestID))
	return nil
}

// scanRequest reads one story_requests row. The status column goes through
// workflow.Normalize so legacy vocabularies are migrated at load time, and
// the form snapshot is decoded through the typed IntakeForm shape.
func scanRequest(row pgx.Row) (*models.StoryRequest, error) {
	var (
		request   models.StoryRequest
		rawStatus string
		rawForm   []byte
	)
	err := row.Scan(
		&request.RequestID,
		&request.Name,
		&request.Email,
		&request.ChildName,
		&request.ChildAge,
		&request.StoryTheme,
		&request.SpecialInterests,
		&request.AdditionalDetails,
		&rawStatus,
		&request.SelectedPlot,
		&request.IllustrationStyle,
		&request.ProductionDays,
		&rawForm,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	request.Status = workflow.Normalize(rawStatus)

	form, err := models.DecodeIntakeForm(rawForm)
	if err != nil {
		return nil, fmt.Errorf("story request %s: %w", request.RequestID, err)
	}
	request.FormData = form
	return &request, nil
}
