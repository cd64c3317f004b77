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

const userColumns = `id, email, referral_id, referrer_id, country_id, language, first_name, last_name, cardholder_id, cardholder_verified`

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user         models.User
		referrerID   sql.NullInt64
		cardholderID sql.NullString
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.ReferralID, &referrerID, &user.CountryID, &user.Language,
		&user.FirstName, &user.LastName, &cardholderID, &user.CardholderVerified,
	)
	if err != nil {
		return nil, err
	}
	user.ReferrerID = referrerID.Int64
	user.CardholderID = cardholderID.String
	return &user, nil
}

func (r *PostgresUserRepository) getOne(ctx context.Context, method, where string, arg any) (*models.User, error) {
	var err error
	tracer := otel.Tracer("user-repository")
	ctx, span := tracer.Start(ctx, method)
	defer span.End()

	start := time.Now()
	defer func() { observe(span, method, start, err) }()

	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` = $1`
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		err = pkgerrors.ErrUserNotFound
		slog.Warn("user not found", "method", method, where, arg)
		return nil, err
	case err != nil:
		slog.Error("failed to get user", "method", method, where, arg, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "GetUserByID", "id", id)
}

func (r *PostgresUserRepository) GetByReferralID(ctx context.Context, referralID string) (*models.User, error) {
	if referralID == "" {
		return nil, fmt.Errorf("%w: empty referral id", pkgerrors.ErrValidation)
	}
	return r.getOne(ctx, "GetUserByReferralID", "referral_id", referralID)
}

func (r *PostgresUserRepository) GetByCardholderID(ctx context.Context, cardholderID string) (*models.User, error) {
	if cardholderID == "" {
		return nil, fmt.Errorf("%w: empty cardholder id", pkgerrors.ErrValidation)
	}
	return r.getOne(ctx, "GetUserByCardholderID", "cardholder_id", cardholderID)
}

func (r *PostgresUserRepository) SetCardholderVerified(ctx context.Context, cardholderID string) error {
	var err error
	tracer := otel.Tracer("user-repository")
	ctx, span := tracer.Start(ctx, "SetCardholderVerified")
	span.SetAttributes(attribute.String("cardholder_id", cardholderID))
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "SetCardholderVerified", start, err) }()

	res, err := r.db.ExecContext(ctx, `UPDATE users SET cardholder_verified = TRUE WHERE cardholder_id = $1`, cardholderID)
	if err != nil {
		slog.Error("failed to verify cardholder", "method", "SetCardholderVerified", "cardholder_id", cardholderID, "error", err)
		return fmt.Errorf("failed to verify cardholder: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to verify cardholder: %w", err)
	}
	if n == 0 {
		err = pkgerrors.ErrUserNotFound
		slog.Warn("cardholder not found", "method", "SetCardholderVerified", "cardholder_id", cardholderID)
		return err
	}

	slog.Info("cardholder verified", "method", "SetCardholderVerified", "cardholder_id", cardholderID)
	return nil
}
