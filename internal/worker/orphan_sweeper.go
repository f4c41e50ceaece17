package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kstack-dev/content-service/internal/events"
	"github.com/kstack-dev/content-service/internal/storage"
)

// OrphanSweeper retries deletion of external objects that outlived their
// database references: storage deletes that failed during entity removal and
// uploads whose reference insert never committed. Entries arrive via
// media.orphaned events and are retried on a fixed interval until the
// provider confirms the object is gone.
type OrphanSweeper struct {
	provider storage.Provider
	logger   *zap.Logger
	interval time.Duration

	mu      sync.Mutex
	pending map[string]string
}

// NewOrphanSweeper builds the sweeper.
func NewOrphanSweeper(provider storage.Provider, dispatcher events.Dispatcher, logger *zap.Logger, interval time.Duration) *OrphanSweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	sweeper := &OrphanSweeper{
		provider: provider,
		logger:   logger,
		interval: interval,
		pending:  make(map[string]string),
	}
	if dispatcher != nil {
		dispatcher.Subscribe(events.EventMediaOrphaned, sweeper.enqueue)
	}
	return sweeper
}

func (w *OrphanSweeper) enqueue(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MediaOrphanedPayload)
	if !ok || payload.ExternalID == "" {
		return nil
	}
	w.mu.Lock()
	w.pending[payload.ExternalID] = payload.Reason
	w.mu.Unlock()
	return nil
}

// Run sweeps until the context is cancelled.
func (w *OrphanSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *OrphanSweeper) sweep(ctx context.Context) {
	w.mu.Lock()
	batch := make(map[string]string, len(w.pending))
	for id, reason := range w.pending {
		batch[id] = reason
	}
	w.mu.Unlock()

	for externalID, reason := range batch {
		err := w.provider.Delete(ctx, externalID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			w.logger.Warn("orphan sweep retry failed",
				zap.String("external_id", externalID),
				zap.Error(err))
			continue
		}
		w.logger.Info("orphaned object reclaimed",
			zap.String("external_id", externalID),
			zap.String("reason", reason))
		w.mu.Lock()
		delete(w.pending, externalID)
		w.mu.Unlock()
	}
}

// PendingCount reports how many orphans await reclamation.
func (w *OrphanSweeper) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}
