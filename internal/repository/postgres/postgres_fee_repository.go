package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type PostgresFeeRepository struct {
	db *sql.DB
}

func NewPostgresFeeRepository(db *sql.DB) *PostgresFeeRepository {
	return &PostgresFeeRepository{db: db}
}

func (r *PostgresFeeRepository) FindSchedule(ctx context.Context, key models.FeeKey) (*models.FeeSchedule, error) {
	var err error
	tracer := otel.Tracer("fee-repository")
	ctx, span := tracer.Start(ctx, "FindSchedule")
	span.SetAttributes(
		attribute.Int64("country_id", key.CountryID),
		attribute.String("currency", string(key.Currency)),
		attribute.String("operation", string(key.Operation)),
		attribute.String("method", key.Method),
	)
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "FindSchedule", start, err) }()

	query := `SELECT fixed_fee, percent_fee, min_amount, max_amount, card_price FROM country_fees WHERE country_id = $1 AND currency = $2 AND operation = $3 AND method = $4`
	schedule := models.FeeSchedule{FeeKey: key}
	err = r.db.QueryRowContext(ctx, query, key.CountryID, key.Currency, key.Operation, key.Method).Scan(
		&schedule.FixedFee,
		&schedule.PercentFee,
		&schedule.MinAmount,
		&schedule.MaxAmount,
		&schedule.CardPrice,
	)
	if errors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrFeeScheduleNotFound
		slog.Warn("fee schedule not found", "method", "FindSchedule", "country_id", key.CountryID, "currency", key.Currency, "operation", key.Operation, "fee_method", key.Method)
		return nil, err
	}
	if err != nil {
		slog.Error("failed to find fee schedule", "method", "FindSchedule", "country_id", key.CountryID, "error", err)
		return nil, fmt.Errorf("failed to find fee schedule: %w", err)
	}

	return &schedule, nil
}
