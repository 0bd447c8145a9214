package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/NimbusVoIP/nimbus_api/internal/service"
)

// LookupWarmWorker re-warms the A-Z lookup cache on a fixed interval so
// autocomplete stays hot after cache expiry.
type LookupWarmWorker struct {
	lookupService *service.LookupService
	interval      time.Duration
}

// NewLookupWarmWorker constructs a LookupWarmWorker.
func NewLookupWarmWorker(lookupService *service.LookupService, interval time.Duration) *LookupWarmWorker {
	return &LookupWarmWorker{
		lookupService: lookupService,
		interval:      interval,
	}
}

// Start begins the warm loop and listens for context cancellation.
func (w *LookupWarmWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting lookup warm worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Lookup warm worker stopped")
			return
		}
	}
}

func (w *LookupWarmWorker) run(ctx context.Context) {
	if err := w.lookupService.WarmCache(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to warm lookup cache")
	}
}
