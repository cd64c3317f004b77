package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/honeynil/KeecashLedger/internal/models"
	"github.com/honeynil/KeecashLedger/internal/repository"
	pkgerrors "github.com/honeynil/KeecashLedger/pkg/errors"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	transactionColumns = `id, user_id, sender_id, receiver_id, card_id, currency, affected_amount, applied_fee, fixed_fee, percentage_fee, card_price, type, status, crypto_type, exchange_rate, crypto_amount, external_payment_reference, description, reason, created_at`

	insertTransactionQuery = `INSERT INTO transactions (user_id, sender_id, receiver_id, card_id, currency, affected_amount, applied_fee, fixed_fee, percentage_fee, card_price, type, status, crypto_type, exchange_rate, crypto_amount, external_payment_reference, description, reason) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18) RETURNING id, created_at`

	balanceLockQuery = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

	balanceQuery = `SELECT COALESCE(SUM(affected_amount), 0) FROM transactions WHERE user_id = $1 AND currency = $2 AND status = 'PERFORMED'`

	balancesQuery = `SELECT currency, COALESCE(SUM(affected_amount), 0) FROM transactions WHERE user_id = $1 AND status = 'PERFORMED' GROUP BY currency`

	transitionQuery = `UPDATE transactions SET status = $1, exchange_rate = COALESCE($2, exchange_rate), crypto_amount = COALESCE($3, crypto_amount), affected_amount = COALESCE($4, affected_amount), applied_fee = COALESCE($5, applied_fee), fixed_fee = COALESCE($6, fixed_fee), percentage_fee = COALESCE($7, percentage_fee), description = COALESCE(NULLIF($8, ''), description) WHERE external_payment_reference = $9 AND type = $10 AND status = $11 RETURNING id`
)

type PostgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) *PostgresTransactionRepository {
	return &PostgresTransactionRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx                            models.Transaction
		senderID, receiverID, cardID  sql.NullInt64
		cryptoType, externalReference sql.NullString
	)
	err := row.Scan(
		&tx.ID, &tx.UserID, &senderID, &receiverID, &cardID, &tx.Currency,
		&tx.AffectedAmount, &tx.AppliedFee, &tx.FixedFee, &tx.PercentageFee, &tx.CardPrice,
		&tx.Type, &tx.Status, &cryptoType, &tx.ExchangeRate, &tx.CryptoAmount,
		&externalReference, &tx.Description, &tx.Reason, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	tx.SenderID = senderID.Int64
	tx.ReceiverID = receiverID.Int64
	tx.CardID = cardID.Int64
	tx.CryptoType = models.CryptoCurrency(cryptoType.String)
	tx.ExternalPaymentReference = externalReference.String
	return &tx, nil
}

func validateTransaction(tx *models.Transaction) error {
	if tx == nil {
		return pkgerrors.ErrNilTransaction
	}
	if !tx.Type.Valid() {
		return pkgerrors.ErrInvalidTransactionType
	}
	if !tx.Status.Valid() {
		return pkgerrors.ErrInvalidTransactionStatus
	}
	if !tx.Currency.Valid() {
		return pkgerrors.ErrInvalidCurrency
	}
	return checkSign(tx.Type, tx.AffectedAmount)
}

// checkSign requires credit types to add to the balance and debit types to
// take from it.
func checkSign(t models.TransactionType, amount decimal.Decimal) error {
	if t.Credit() && !amount.IsPositive() {
		return fmt.Errorf("%w: %s row with amount %s", pkgerrors.ErrInvalidAmount, t, amount.String())
	}
	if !t.Credit() && !amount.IsNegative() {
		return fmt.Errorf("%w: %s row with amount %s", pkgerrors.ErrInvalidAmount, t, amount.String())
	}
	return nil
}

func insertTransaction(ctx context.Context, dbTx *sql.Tx, tx *models.Transaction) error {
	return dbTx.QueryRowContext(ctx, insertTransactionQuery,
		tx.UserID, nullID(tx.SenderID), nullID(tx.ReceiverID), nullID(tx.CardID), tx.Currency,
		tx.AffectedAmount, tx.AppliedFee, tx.FixedFee, tx.PercentageFee, tx.CardPrice,
		tx.Type, tx.Status, nullString(string(tx.CryptoType)), tx.ExchangeRate, tx.CryptoAmount,
		nullString(tx.ExternalPaymentReference), tx.Description, tx.Reason,
	).Scan(&tx.ID, &tx.CreatedAt)
}

func (r *PostgresTransactionRepository) Create(ctx context.Context, tx *models.Transaction) (int64, error) {
	var err error
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, "CreateTransaction")
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "CreateTransaction", start, err) }()

	if err = validateTransaction(tx); err != nil {
		slog.Error("invalid transaction", "method", "Create", "error", err)
		return 0, err
	}

	span.SetAttributes(
		attribute.Int64("user_id", tx.UserID),
		attribute.String("currency", string(tx.Currency)),
		attribute.String("type", string(tx.Type)),
		attribute.String("status", string(tx.Status)),
	)

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "Create", "error", err)
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = insertTransaction(ctx, dbTx, tx); err != nil {
		err = rollback(dbTx, err)
		slog.Error("failed to create transaction", "method", "Create", "user_id", tx.UserID, "type", tx.Type, "status", tx.Status, "error", err)
		return 0, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "Create", "error", err)
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("transaction created", "method", "Create", "id", tx.ID, "user_id", tx.UserID, "type", tx.Type, "status", tx.Status)
	return tx.ID, nil
}

// CreateWithBalanceCheck writes txs in one database transaction after
// re-summing the PERFORMED balance under an advisory lock held on
// (user, currency) until commit.
func (r *PostgresTransactionRepository) CreateWithBalanceCheck(ctx context.Context, check repository.BalanceCheck, txs []*models.Transaction) error {
	var err error
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, "CreateWithBalanceCheck")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("user_id", check.UserID),
		attribute.String("currency", string(check.Currency)),
		attribute.String("required", check.Required.String()),
		attribute.Int("rows", len(txs)),
	)

	start := time.Now()
	defer func() { observe(span, "CreateWithBalanceCheck", start, err) }()

	for _, tx := range txs {
		if err = validateTransaction(tx); err != nil {
			slog.Error("invalid transaction", "method", "CreateWithBalanceCheck", "error", err)
			return err
		}
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "CreateWithBalanceCheck", "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	lockKey := fmt.Sprintf("balance:%d:%s", check.UserID, check.Currency)
	if _, err = dbTx.ExecContext(ctx, balanceLockQuery, lockKey); err != nil {
		err = rollback(dbTx, err)
		slog.Error("failed to lock balance", "method", "CreateWithBalanceCheck", "user_id", check.UserID, "error", err)
		return fmt.Errorf("failed to lock balance: %w", err)
	}

	var balance decimal.Decimal
	if err = dbTx.QueryRowContext(ctx, balanceQuery, check.UserID, check.Currency).Scan(&balance); err != nil {
		err = rollback(dbTx, err)
		slog.Error("failed to get balance", "method", "CreateWithBalanceCheck", "user_id", check.UserID, "error", err)
		return fmt.Errorf("failed to get balance: %w", err)
	}

	if balance.LessThan(check.Required) {
		err = rollback(dbTx, pkgerrors.ErrInsufficientFunds)
		slog.Warn("insufficient funds", "method", "CreateWithBalanceCheck", "user_id", check.UserID, "currency", check.Currency, "balance", balance.String(), "required", check.Required.String())
		return err
	}

	for _, tx := range txs {
		if err = insertTransaction(ctx, dbTx, tx); err != nil {
			err = rollback(dbTx, err)
			slog.Error("failed to create transaction", "method", "CreateWithBalanceCheck", "user_id", tx.UserID, "type", tx.Type, "error", err)
			return fmt.Errorf("failed to create transaction: %w", err)
		}
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "CreateWithBalanceCheck", "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("transactions created", "method", "CreateWithBalanceCheck", "user_id", check.UserID, "currency", check.Currency, "rows", len(txs))
	return nil
}

func (r *PostgresTransactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var err error
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, "GetTransactionByID")
	span.SetAttributes(attribute.Int64("transaction_id", id))
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "GetTransactionByID", start, err) }()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrTransactionNotFound
		slog.Error("transaction not found", "method", "GetByID", "transaction_id", id, "error", err)
		return nil, err
	}
	if err != nil {
		slog.Error("failed to get transaction by id", "method", "GetByID", "transaction_id", id, "error", err)
		return nil, fmt.Errorf("failed to get transaction by id: %w", err)
	}

	return tx, nil
}

// FindPending returns the IN_PROGRESS row a provider reference points at.
func (r *PostgresTransactionRepository) FindPending(ctx context.Context, reference string, txType models.TransactionType) (*models.Transaction, error) {
	var err error
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, "FindPending")
	span.SetAttributes(
		attribute.String("payment_reference", reference),
		attribute.String("type", string(txType)),
	)
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "FindPending", start, err) }()

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE external_payment_reference = $1 AND type = $2 AND status = $3`
	tx, err := scanTransaction(r.db.QueryRowContext(ctx, query, reference, txType, models.StatusInProgress))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrTransactionNotFound
		slog.Info("no pending transaction", "method", "FindPending", "payment_reference", reference, "type", txType)
		return nil, err
	}
	if err != nil {
		slog.Error("failed to find pending transaction", "method", "FindPending", "payment_reference", reference, "error", err)
		return nil, fmt.Errorf("failed to find pending transaction: %w", err)
	}

	return tx, nil
}

// Transition moves the row matched by reference, type and current status to
// update.To and inserts extra in the same database transaction. It reports
// false without writing anything when no row matched, which is how a
// redelivered webhook is absorbed.
func (r *PostgresTransactionRepository) Transition(ctx context.Context, match repository.TransitionMatch, update repository.TransitionUpdate, extra []*models.Transaction) (bool, error) {
	var err error
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, "TransitionTransaction")
	span.SetAttributes(
		attribute.String("payment_reference", match.Reference),
		attribute.String("type", string(match.Type)),
		attribute.String("from", string(match.From)),
		attribute.String("to", string(update.To)),
	)
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "TransitionTransaction", start, err) }()

	if !match.From.CanTransitionTo(update.To) {
		err = fmt.Errorf("%w: %s -> %s", pkgerrors.ErrInvalidTransition, match.From, update.To)
		slog.Error("invalid transition", "method", "Transition", "payment_reference", match.Reference, "error", err)
		return false, err
	}
	if update.AffectedAmount.Valid {
		if err = checkSign(match.Type, update.AffectedAmount.Decimal); err != nil {
			slog.Error("invalid transition amount", "method", "Transition", "payment_reference", match.Reference, "error", err)
			return false, err
		}
	}
	for _, tx := range extra {
		if err = validateTransaction(tx); err != nil {
			slog.Error("invalid transaction", "method", "Transition", "error", err)
			return false, err
		}
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Error("failed to begin transaction", "method", "Transition", "error", err)
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var id int64
	err = dbTx.QueryRowContext(ctx, transitionQuery,
		update.To, update.ExchangeRate, update.CryptoAmount, update.AffectedAmount,
		update.AppliedFee, update.FixedFee, update.PercentageFee, update.Description,
		match.Reference, match.Type, match.From,
	).Scan(&id)
	if stderrors.Is(err, sql.ErrNoRows) {
		err = nil
		if rbErr := dbTx.Rollback(); rbErr != nil {
			err = fmt.Errorf("rollback failed: %w", rbErr)
			return false, err
		}
		slog.Info("transition matched no row", "method", "Transition", "payment_reference", match.Reference, "type", match.Type)
		return false, nil
	}
	if err != nil {
		err = rollback(dbTx, err)
		slog.Error("failed to update transaction", "method", "Transition", "payment_reference", match.Reference, "error", err)
		return false, fmt.Errorf("failed to update transaction: %w", err)
	}

	for _, tx := range extra {
		if err = insertTransaction(ctx, dbTx, tx); err != nil {
			err = rollback(dbTx, err)
			slog.Error("failed to create transaction", "method", "Transition", "user_id", tx.UserID, "type", tx.Type, "error", err)
			return false, fmt.Errorf("failed to create transaction: %w", err)
		}
	}

	if err = dbTx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "method", "Transition", "error", err)
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Info("transaction transitioned", "method", "Transition", "transaction_id", id, "payment_reference", match.Reference, "status", update.To, "extra_rows", len(extra))
	return true, nil
}

func (r *PostgresTransactionRepository) GetBalance(ctx context.Context, userID int64, currency models.Currency) (decimal.Decimal, error) {
	var err error
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, "GetBalance")
	span.SetAttributes(
		attribute.Int64("user_id", userID),
		attribute.String("currency", string(currency)),
	)
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "GetBalance", start, err) }()

	var balance decimal.Decimal
	if err = r.db.QueryRowContext(ctx, balanceQuery, userID, currency).Scan(&balance); err != nil {
		slog.Error("failed to get balance", "method", "GetBalance", "user_id", userID, "currency", currency, "error", err)
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance.Round(2), nil
}

func (r *PostgresTransactionRepository) GetBalances(ctx context.Context, userID int64) (map[models.Currency]decimal.Decimal, error) {
	var err error
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, "GetBalances")
	span.SetAttributes(attribute.Int64("user_id", userID))
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "GetBalances", start, err) }()

	rows, err := r.db.QueryContext(ctx, balancesQuery, userID)
	if err != nil {
		slog.Error("failed to get balances", "method", "GetBalances", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[models.Currency]decimal.Decimal, len(models.Currencies))
	for _, c := range models.Currencies {
		balances[c] = decimal.Zero
	}
	for rows.Next() {
		var (
			currency models.Currency
			sum      decimal.Decimal
		)
		if err = rows.Scan(&currency, &sum); err != nil {
			slog.Error("failed to scan balance", "method", "GetBalances", "user_id", userID, "error", err)
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[currency] = sum.Round(2)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read balances: %w", err)
	}

	return balances, nil
}

// List returns PERFORMED rows of the filter's user, newest first.
func (r *PostgresTransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	var err error
	tracer := otel.Tracer("transaction-repository")
	ctx, span := tracer.Start(ctx, "ListTransactions")
	span.SetAttributes(attribute.Int64("user_id", filter.UserID))
	defer span.End()

	start := time.Now()
	defer func() { observe(span, "ListTransactions", start, err) }()

	query, args := buildListQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("failed to list transactions", "method", "List", "user_id", filter.UserID, "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, scanErr := scanTransaction(rows)
		if scanErr != nil {
			err = scanErr
			slog.Error("failed to scan transaction", "method", "List", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return txs, nil
}

func buildListQuery(filter models.TransactionFilter) (string, []any) {
	conds := []string{"user_id = $1", "status = $2"}
	args := []any{filter.UserID, models.StatusPerformed}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Currency != "" {
		add("currency = $%d", filter.Currency)
	}
	if filter.FromAmount.Valid {
		add("ABS(affected_amount) >= $%d", filter.FromAmount.Decimal)
	}
	if filter.ToAmount.Valid {
		add("ABS(affected_amount) <= $%d", filter.ToAmount.Decimal)
	}
	if filter.FromDate != nil {
		add("created_at >= $%d", *filter.FromDate)
	}
	if filter.ToDate != nil {
		add("created_at <= $%d", *filter.ToDate)
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		add("type = ANY($%d)", pq.Array(types))
	}
	if len(filter.CryptoTypes) > 0 {
		cryptoTypes := make([]string, len(filter.CryptoTypes))
		for i, t := range filter.CryptoTypes {
			cryptoTypes[i] = string(t)
		}
		add("crypto_type = ANY($%d)", pq.Array(cryptoTypes))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return query, args
}
