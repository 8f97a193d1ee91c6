package observability

import (
	"context"
	"errors"

	"github.com/kbukum/transcribe-mcp/logger"
)

// Setup initializes exporters when cfg.Enabled and returns the metric
// instruments plus a shutdown func that flushes both providers. When
// disabled, metrics are recorded on the no-op global meter.
func Setup(ctx context.Context, cfg Config, res Resource, log *logger.Logger) (*Metrics, func(context.Context) error, error) {
	log = log.WithComponent("observability")
	shutdown := func(context.Context) error { return nil }

	if cfg.Enabled {
		tp, err := InitTracer(ctx, cfg, res, log)
		if err != nil {
			return nil, nil, err
		}
		mp, err := InitMeter(ctx, cfg, res, log)
		if err != nil {
			_ = tp.Shutdown(ctx)
			return nil, nil, err
		}
		shutdown = func(ctx context.Context) error {
			return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
		}
	}

	metrics, err := NewMetrics(Meter(res.ServiceName))
	if err != nil {
		_ = shutdown(ctx)
		return nil, nil, err
	}
	return metrics, shutdown, nil
}
