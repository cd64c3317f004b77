package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/KeecashLedger/internal/models"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	var err error
	tracer := otel.Tracer("notification-repository")
	ctx, span := tracer.Start(ctx, "CreateNotification")
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "CreateNotification", start, err) }()

	if n == nil || !n.Type.Valid() {
		err = fmt.Errorf("%w: notification type", pkgerrors.ErrInvalidPayload)
		return err
	}
	span.SetAttributes(
		attribute.Int64("user_id", n.UserID),
		attribute.String("type", string(n.Type)),
	)

	query := `INSERT INTO notifications (user_id, type, amount, currency) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query, n.UserID, n.Type, n.Amount, n.Currency).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		slog.Error("failed to create notification", "method", "CreateNotification", "user_id", n.UserID, "error", err)
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}
