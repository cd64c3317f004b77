package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/honeynil/KeecashLedger/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// observe closes out a repository call: the span gets the error, the call
// counter and latency histogram get the outcome.
func observe(span trace.Span, method string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	observability.RepositoryCalls.WithLabelValues(method, status).Inc()
	observability.RepositoryDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func rollback(tx *sql.Tx, err error) error {
	if rbErr := tx.Rollback(); rbErr != nil {
		return fmt.Errorf("rollback failed: %v; original error: %w", rbErr, err)
	}
	return err
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
