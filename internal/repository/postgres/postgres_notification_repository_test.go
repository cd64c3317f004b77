package postgres_test

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository/postgres"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPostgresNotificationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPostgresNotificationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		n := &models.Notification{UserID: 1, Type: models.NotificationDeposit, Amount: decimal.NewFromInt(100), Currency: models.CurrencyEUR}
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications (user_id, type, amount, currency) VALUES ($1, $2, $3, $4) RETURNING id, created_at`)).
			WithArgs(int64(1), models.NotificationDeposit, decimal.NewFromInt(100), models.CurrencyEUR).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(12), time.Now()))

		assert.NoError(t, repo.Create(ctx, n))
		assert.Equal(t, int64(12), n.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InvalidType", func(t *testing.T) {
		err := repo.Create(ctx, &models.Notification{UserID: 1, Type: "PING"})
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidPayload)
	})

	t.Run("DatabaseError", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications`)).
			WillReturnError(fmt.Errorf("database error"))

		err := repo.Create(ctx, &models.Notification{UserID: 1, Type: models.NotificationWithdrawal, Currency: models.CurrencyEUR})
		assert.Contains(t, err.Error(), "failed to create notification")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
