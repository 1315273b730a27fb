package repository

import (
	"context"
	"fmt"

	"cuentos-server/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check
var _ PlotOptionRepository = (*pgPlotOptionRepository)(nil)

type pgPlotOptionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPgPlotOptionRepository creates a PostgreSQL-backed PlotOptionRepository.
func NewPgPlotOptionRepository(db *pgxpool.Pool, logger *zap.Logger) PlotOptionRepository {
	return &pgPlotOptionRepository{
		db:     db,
		logger: logger.Named("PgPlotOptionRepo"),
	}
}

func (r *pgPlotOptionRepository) ReplaceForRequest(ctx context.Context, requestID string, options []models.PlotOption) error {
	logFields := []zap.Field{zap.String("requestID", requestID), zap.Int("optionCount", len(options))}
	r.logger.Debug("Replacing plot options", logFields...)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin plot option transaction for %s: %w", requestID, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM plot_options WHERE request_id = $1`, requestID); err != nil {
		r.logger.Error("Failed to clear previous plot options", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to clear plot options for %s: %w", requestID, err)
	}

	insert := `
        INSERT INTO plot_options (request_id, option_id, title, description, position, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	for i, opt := range options {
		if _, err := tx.Exec(ctx, insert, requestID, opt.OptionID, opt.Title, opt.Description, i, opt.CreatedAt); err != nil {
			r.logger.Error("Failed to insert plot option",
				append(logFields, zap.String("optionID", opt.OptionID), zap.Error(err))...)
			return fmt.Errorf("failed to insert plot option %s for %s: %w", opt.OptionID, requestID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit plot options for %s: %w", requestID, err)
	}
	r.logger.Info("Plot options replaced", logFields...)
	return nil
}

func (r *pgPlotOptionRepository) ListByRequestID(ctx context.Context, requestID string) ([]models.PlotOption, error) {
	query := `
        SELECT request_id, option_id, title, description, created_at
        FROM plot_options
        WHERE request_id = $1
        ORDER BY position ASC
    `
	rows, err := r.db.Query(ctx, query, requestID)
	if err != nil {
		r.logger.Error("Failed to list plot options", zap.String("requestID", requestID), zap.Error(err))
		return nil, fmt.Errorf("failed to list plot options for %s: %w", requestID, err)
	}
	defer rows.Close()

	options := make([]models.PlotOption, 0)
	for rows.Next() {
		var opt models.PlotOption
		if err := rows.Scan(&opt.RequestID, &opt.OptionID, &opt.Title, &opt.Description, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plot option row: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plot option rows: %w", err)
	}
	return options, nil
}
