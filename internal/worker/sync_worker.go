package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/model"
)

// Reconciler appends entries for images the bank does not reference yet.
type Reconciler interface {
	Reconcile(ctx context.Context) ([]model.Entry, error)
}

// SyncWorker reconciles the bank on a fixed interval so images dropped into
// the image directory show up without a page load.
type SyncWorker struct {
	bank     Reconciler
	interval time.Duration
	log      zerolog.Logger
}

// NewSyncWorker creates a new SyncWorker.
func NewSyncWorker(bank Reconciler, interval time.Duration, log zerolog.Logger) *SyncWorker {
	return &SyncWorker{
		bank:     bank,
		interval: interval,
		log:      log.With().Str("component", "sync_worker").Logger(),
	}
}

// Start runs the loop until ctx is cancelled. Call in a goroutine.
func (w *SyncWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.log.Debug().Msg("Background sync disabled")
		return
	}
	w.log.Info().Dur("interval", w.interval).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *SyncWorker) runOnce(ctx context.Context) {
	entries, err := w.bank.Reconcile(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Reconcile error")
		}
		return
	}
	w.log.Debug().Int("entries", len(entries)).Msg("Bank reconciled")
}
