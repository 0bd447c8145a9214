package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NimbusVoIP/nimbus_api/internal/repository"
)

// RateSweepWorker purges rate records whose end date passed longer ago than
// the retention window. Expired rates stay queryable (the console filters on
// "expired") until retention runs out.
type RateSweepWorker struct {
	rateRepo  *repository.RateRepository
	interval  time.Duration
	retention time.Duration
}

// NewRateSweepWorker constructs a RateSweepWorker.
func NewRateSweepWorker(rateRepo *repository.RateRepository, interval, retention time.Duration) *RateSweepWorker {
	return &RateSweepWorker{
		rateRepo:  rateRepo,
		interval:  interval,
		retention: retention,
	}
}

// Start begins the sweep loop and listens for context cancellation.
func (w *RateSweepWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("retention", w.retention).Msg("Starting rate sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Rate sweep worker stopped")
			return
		}
	}
}

func (w *RateSweepWorker) run(ctx context.Context) {
	cutoff := time.Now().Add(-w.retention)
	n, err := w.rateRepo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Failed to sweep expired rates")
		return
	}
	if n > 0 {
		log.Info().Int64("purged", n).Time("cutoff", cutoff).Msg("Swept expired rates")
	}
}
