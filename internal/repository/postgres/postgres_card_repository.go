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

const cardColumns = `id, user_id, name, currency, usage, external_card_id, is_blocked, created_at, deleted_at`

type PostgresCardRepository struct {
	db *sql.DB
}

func NewPostgresCardRepository(db *sql.DB) *PostgresCardRepository {
	return &PostgresCardRepository{db: db}
}

func scanCard(row rowScanner) (*models.Card, error) {
	var (
		card      models.Card
		deletedAt sql.NullTime
	)
	err := row.Scan(&card.ID, &card.UserID, &card.Name, &card.Currency, &card.Usage,
		&card.ExternalCardID, &card.IsBlocked, &card.CreatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	if deletedAt.Valid {
		card.DeletedAt = &deletedAt.Time
	}
	return &card, nil
}

func (r *PostgresCardRepository) Create(ctx context.Context, card *models.Card) (int64, error) {
	var err error
	tracer := otel.Tracer("card-repository")
	ctx, span := tracer.Start(ctx, "CreateCard")
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "CreateCard", start, err) }()

	if card == nil {
		err = pkgerrors.ErrNilCard
		return 0, err
	}
	if !card.Usage.Valid() || !card.Currency.Valid() || card.ExternalCardID == "" {
		err = fmt.Errorf("%w: incomplete card", pkgerrors.ErrValidation)
		slog.Error("invalid card", "method", "CreateCard", "user_id", card.UserID, "error", err)
		return 0, err
	}
	span.SetAttributes(
		attribute.Int64("user_id", card.UserID),
		attribute.String("external_card_id", card.ExternalCardID),
	)

	query := `INSERT INTO cards (user_id, name, currency, usage, external_card_id, is_blocked) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query, card.UserID, card.Name, card.Currency, card.Usage, card.ExternalCardID, card.IsBlocked).
		Scan(&card.ID, &card.CreatedAt)
	if err != nil {
		slog.Error("failed to create card", "method", "CreateCard", "user_id", card.UserID, "error", err)
		return 0, fmt.Errorf("failed to create card: %w", err)
	}

	slog.Info("card created", "method", "CreateCard", "id", card.ID, "user_id", card.UserID)
	return card.ID, nil
}

// GetByExternalID finds a live card by the issuer's id.
func (r *PostgresCardRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Card, error) {
	var err error
	tracer := otel.Tracer("card-repository")
	ctx, span := tracer.Start(ctx, "GetCardByExternalID")
	span.SetAttributes(attribute.String("external_card_id", externalID))
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "GetCardByExternalID", start, err) }()

	query := `SELECT ` + cardColumns + ` FROM cards WHERE external_card_id = $1 AND deleted_at IS NULL`
	card, err := scanCard(r.db.QueryRowContext(ctx, query, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrCardNotFound
		return nil, err
	}
	if err != nil {
		slog.Error("failed to get card", "method", "GetCardByExternalID", "external_card_id", externalID, "error", err)
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return card, nil
}

func (r *PostgresCardRepository) ListByUser(ctx context.Context, userID int64) ([]models.Card, error) {
	var err error
	tracer := otel.Tracer("card-repository")
	ctx, span := tracer.Start(ctx, "ListCardsByUser")
	span.SetAttributes(attribute.Int64("user_id", userID))
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "ListCardsByUser", start, err) }()

	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Error("failed to list cards", "method", "ListCardsByUser", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		card, scanErr := scanCard(rows)
		if scanErr != nil {
			err = scanErr
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *card)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cards: %w", err)
	}

	return cards, nil
}

func (r *PostgresCardRepository) SoftDelete(ctx context.Context, id int64) error {
	var err error
	tracer := otel.Tracer("card-repository")
	ctx, span := tracer.Start(ctx, "SoftDeleteCard")
	span.SetAttributes(attribute.Int64("card_id", id))
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "SoftDeleteCard", start, err) }()

	res, err := r.db.ExecContext(ctx, `UPDATE cards SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		slog.Error("failed to delete card", "method", "SoftDeleteCard", "card_id", id, "error", err)
		return fmt.Errorf("failed to delete card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if n == 0 {
		err = pkgerrors.ErrCardNotFound
		return err
	}

	slog.Info("card deleted", "method", "SoftDeleteCard", "card_id", id)
	return nil
}

func (r *PostgresCardRepository) SetBlocked(ctx context.Context, id int64, blocked bool) error {
	var err error
	tracer := otel.Tracer("card-repository")
	ctx, span := tracer.Start(ctx, "SetCardBlocked")
	span.SetAttributes(attribute.Int64("card_id", id), attribute.Bool("blocked", blocked))
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "SetCardBlocked", start, err) }()

	res, err := r.db.ExecContext(ctx, `UPDATE cards SET is_blocked = $1 WHERE id = $2 AND deleted_at IS NULL`, blocked, id)
	if err != nil {
		slog.Error("failed to update card", "method", "SetCardBlocked", "card_id", id, "error", err)
		return fmt.Errorf("failed to update card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	if n == 0 {
		err = pkgerrors.ErrCardNotFound
		return err
	}
	return nil
}
