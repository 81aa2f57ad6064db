// internal/app/system/workers/orphansweeper.go
package workers

import (
	"context"
	"errors"
	"sync"
	"time"

	orphanstore "github.com/dalemusser/rentalhub/internal/app/store/orphans"
	"github.com/dalemusser/rentalhub/internal/app/system/objectstore"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrphanStore is the subset of the orphans store the sweeper needs.
type OrphanStore interface {
	Due(ctx context.Context, now time.Time, limit int64) ([]orphanstore.Orphan, error)
	MarkFailed(ctx context.Context, id primitive.ObjectID, cause error, next time.Time) error
	Remove(ctx context.Context, id primitive.ObjectID) error
}

const (
	sweepBatch = 50
	maxBackoff = 24 * time.Hour
)

// OrphanSweeper is a background worker that retries object-storage deletions
// that failed during property or profile-image cleanup.
type OrphanSweeper struct {
	orphans  OrphanStore
	objects  objectstore.Store
	log      *zap.Logger
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewOrphanSweeper creates a new sweeper.
//
// Parameters:
//   - orphans: the storage_orphans store
//   - objects: the object store the orphaned keys live in
//   - logger: zap logger for logging
//   - interval: how often to run (e.g., 10 minutes); also the base retry backoff
func NewOrphanSweeper(orphans OrphanStore, objects objectstore.Store, logger *zap.Logger, interval time.Duration) *OrphanSweeper {
	return &OrphanSweeper{
		orphans:  orphans,
		objects:  objects,
		log:      logger,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *OrphanSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("orphan sweeper started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *OrphanSweeper) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("orphan sweeper stopped")
}

func (w *OrphanSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			w.Sweep(ctx)
			cancel()
		}
	}
}

// Sweep processes one batch of due orphans and returns how many were
// deleted and how many failed again.
func (w *OrphanSweeper) Sweep(ctx context.Context) (deleted, failed int) {
	now := w.now().UTC()
	due, err := w.orphans.Due(ctx, now, sweepBatch)
	if err != nil {
		w.log.Error("failed to load storage orphans", zap.Error(err))
		return 0, 0
	}

	for _, o := range due {
		err := w.objects.Delete(ctx, o.Key)
		if err == nil || errors.Is(err, objectstore.ErrNotFound) {
			if rmErr := w.orphans.Remove(ctx, o.ID); rmErr != nil {
				w.log.Warn("failed to remove storage orphan record", zap.String("key", o.Key), zap.Error(rmErr))
			}
			deleted++
			continue
		}

		failed++
		next := now.Add(w.backoff(o.Attempts + 1))
		if mErr := w.orphans.MarkFailed(ctx, o.ID, err, next); mErr != nil {
			w.log.Warn("failed to reschedule storage orphan", zap.String("key", o.Key), zap.Error(mErr))
		}
		w.log.Warn("storage orphan delete failed",
			zap.String("key", o.Key),
			zap.Int("attempts", o.Attempts+1),
			zap.Time("next_attempt_at", next),
			zap.Error(err))
	}

	if deleted > 0 {
		w.log.Info("deleted storage orphans", zap.Int("count", deleted))
	}
	return deleted, failed
}

// backoff doubles the interval per attempt, capped at maxBackoff.
func (w *OrphanSweeper) backoff(attempts int) time.Duration {
	d := w.interval
	for i := 1; i < attempts && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}
