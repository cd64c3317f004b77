package observability

import (
	"context"
	"errors"

	"github.com/honeynil/KeecashLedger/internal/config"
	"github.com/honeynil/KeecashLedger/internal/infrastructure/observability"
)

// Setup installs the JSON logger, registers metrics, starts the metrics
// listener and the tracer provider. The returned func stops both.
func Setup(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	observability.InitLogger()
	observability.InitMetrics()

	tracerShutdown, err := observability.InitTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	metricsServer := observability.ServeMetrics(cfg.MetricsAddr)

	return func(ctx context.Context) error {
		return errors.Join(metricsServer.Shutdown(ctx), tracerShutdown(ctx))
	}, nil
}
