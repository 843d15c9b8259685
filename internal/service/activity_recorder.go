package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"cleansweep/internal/model"
	"cleansweep/internal/repository"
)

const (
	activityQueueSize     = 100
	activityBatchSize     = 10
	activityFlushInterval = time.Second
)

// ActivityRecorder writes audit entries asynchronously.
type ActivityRecorder interface {
	// Record queues an entry. It never blocks on the store unless the queue is full.
	Record(ctx context.Context, entry model.ActivityLog)
	// Recent returns the newest entries already persisted.
	Recent(ctx context.Context, limit int) ([]model.ActivityLog, error)
	// Close flushes queued entries and stops the worker.
	Close()
}

type activityRecorder struct {
	repo   repository.ActivityRepository
	logger *zap.Logger

	mu      sync.RWMutex
	closed  bool
	entries chan model.ActivityLog
	done    chan struct{}
}

// NewActivityRecorder starts the background writer.
func NewActivityRecorder(repo repository.ActivityRepository, logger *zap.Logger) ActivityRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &activityRecorder{
		repo:    repo,
		logger:  logger,
		entries: make(chan model.ActivityLog, activityQueueSize),
		done:    make(chan struct{}),
	}
	go r.worker()
	return r
}

func (r *activityRecorder) Record(ctx context.Context, entry model.ActivityLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.flush(context.WithoutCancel(ctx), []model.ActivityLog{entry})
		return
	}
	select {
	case r.entries <- entry:
	default:
		// queue full, write synchronously
		r.flush(context.WithoutCancel(ctx), []model.ActivityLog{entry})
	}
}

func (r *activityRecorder) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	return r.repo.Recent(ctx, limit)
}

func (r *activityRecorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.entries)
	r.mu.Unlock()
	<-r.done
}

func (r *activityRecorder) worker() {
	defer close(r.done)

	ctx := context.Background()
	batch := make([]model.ActivityLog, 0, activityBatchSize)
	ticker := time.NewTicker(activityFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-r.entries:
			if !ok {
				r.flush(ctx, batch)
				return
			}
			batch = append(batch, entry)
			if len(batch) >= activityBatchSize {
				r.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (r *activityRecorder) flush(ctx context.Context, batch []model.ActivityLog) {
	if len(batch) == 0 {
		return
	}
	if err := r.repo.CreateBatch(ctx, batch); err != nil {
		r.logger.Error("write activity log", zap.Int("entries", len(batch)), zap.Error(err))
	}
}
