package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/fpl-optimizer/internal/config"
	"github.com/riskibarqy/fpl-optimizer/internal/observability"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

// StartTelemetry starts tracing and profiling. The returned stop flushes both
// and is safe to call when neither is enabled.
func StartTelemetry(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}

	stopProfiling, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}

	return func(ctx context.Context) error {
		return errors.Join(stopProfiling(), shutdownTracing(ctx))
	}, nil
}
