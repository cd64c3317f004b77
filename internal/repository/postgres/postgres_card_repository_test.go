package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository/postgres"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var cardRowColumns = []string{"id", "user_id", "name", "currency", "usage", "external_card_id", "is_blocked", "created_at", "deleted_at"}

func TestPostgresCardRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPostgresCardRepository(db)
	ctx := context.Background()

	t.Run("NilCard", func(t *testing.T) {
		id, err := repo.Create(ctx, nil)
		assert.Equal(t, int64(0), id)
		assert.ErrorIs(t, err, pkgerrors.ErrNilCard)
	})

	t.Run("MissingExternalID", func(t *testing.T) {
		id, err := repo.Create(ctx, &models.Card{UserID: 1, Currency: models.CurrencyUSD, Usage: models.CardUsageMultiple})
		assert.Equal(t, int64(0), id)
		assert.ErrorIs(t, err, pkgerrors.ErrValidation)
	})

	t.Run("Success", func(t *testing.T) {
		card := &models.Card{UserID: 1, Name: "Travel", Currency: models.CurrencyUSD, Usage: models.CardUsageMultiple, ExternalCardID: "bc-1"}
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO cards (user_id, name, currency, usage, external_card_id, is_blocked) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`)).
			WithArgs(int64(1), "Travel", models.CurrencyUSD, models.CardUsageMultiple, "bc-1", false).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(4), time.Now()))

		id, err := repo.Create(ctx, card)
		assert.NoError(t, err)
		assert.Equal(t, int64(4), id)
		assert.Equal(t, int64(4), card.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCardRepository_GetByExternalID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPostgresCardRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cards WHERE external_card_id = $1 AND deleted_at IS NULL`)).
			WithArgs("bc-1").
			WillReturnRows(sqlmock.NewRows(cardRowColumns).
				AddRow(int64(4), int64(1), "Travel", "USD", "MULTIPLE", "bc-1", false, time.Now(), nil))

		card, err := repo.GetByExternalID(ctx, "bc-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(1), card.UserID)
		assert.Equal(t, models.CardUsageMultiple, card.Usage)
		assert.Nil(t, card.DeletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM cards WHERE external_card_id = $1`)).
			WithArgs("bc-2").
			WillReturnError(sql.ErrNoRows)

		card, err := repo.GetByExternalID(ctx, "bc-2")
		assert.Nil(t, card)
		assert.ErrorIs(t, err, pkgerrors.ErrCardNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCardRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPostgresCardRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM cards WHERE user_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cardRowColumns).
			AddRow(int64(5), int64(1), "Online", "EUR", "UNIQUE", "bc-2", true, time.Now(), nil).
			AddRow(int64(4), int64(1), "Travel", "USD", "MULTIPLE", "bc-1", false, time.Now(), nil))

	cards, err := repo.ListByUser(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, cards, 2)
	assert.True(t, cards[0].IsBlocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCardRepository_SoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPostgresCardRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE cards SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`)).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SoftDelete(ctx, 4))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyDeleted", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE cards SET deleted_at`)).
			WithArgs(int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SoftDelete(ctx, 4), pkgerrors.ErrCardNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCardRepository_SetBlocked(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := postgres.NewPostgresCardRepository(db)
	ctx := context.Background()

	t.Run("Freeze", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE cards SET is_blocked = $1 WHERE id = $2 AND deleted_at IS NULL`)).
			WithArgs(true, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetBlocked(ctx, 4, true))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Deleted", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE cards SET is_blocked`)).
			WithArgs(false, int64(4)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetBlocked(ctx, 4, false), pkgerrors.ErrCardNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
