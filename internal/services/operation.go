package service

import (
	"github.com/honeynil/KeecashLedger/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// fail records err on the span and the operation counter, then returns it.
func fail(span trace.Span, operation, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	observability.LedgerOperations.WithLabelValues(operation, "error").Inc()
	return err
}

func succeed(operation string) {
	observability.LedgerOperations.WithLabelValues(operation, "ok").Inc()
}
