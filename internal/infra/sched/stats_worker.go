package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"premium-access-service/internal/infra/metrics"
	"premium-access-service/internal/usecase"
)

// StatsWorker periodically samples the key store and refreshes the
// outstanding-keys gauge. Purely observational; it never mutates state.
type StatsWorker struct {
	interval time.Duration
	keysUC   *usecase.AccessKeyUseCase
	log      *zerolog.Logger
}

func NewStatsWorker(interval time.Duration, keysUC *usecase.AccessKeyUseCase, logger *zerolog.Logger) *StatsWorker {
	l := logger.With().Str("component", "stats_worker").Logger()
	return &StatsWorker{interval: interval, keysUC: keysUC, log: &l}
}

func (w *StatsWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("starting stats worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("stopping stats worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.keysUC.CountOutstanding(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("stats sample failed")
				continue
			}
			metrics.SetKeysOutstanding(n)
		}
	}
}
