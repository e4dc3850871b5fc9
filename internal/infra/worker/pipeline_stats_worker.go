package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type StageCounter interface {
	CountByStage(ctx context.Context) (map[entity.Stage]int, error)
}

// PipelineStatsWorker periodically publishes how many leads sit in each stage.
type PipelineStatsWorker struct {
	counter      StageCounter
	publish      func(map[entity.Stage]int)
	tickInterval time.Duration
	logger       *zap.Logger
}

func NewPipelineStatsWorker(counter StageCounter, publish func(map[entity.Stage]int), interval time.Duration, logger *zap.Logger) *PipelineStatsWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineStatsWorker{
		counter:      counter,
		publish:      publish,
		tickInterval: interval,
		logger:       logger,
	}
}

// Start refreshes once immediately, then on every tick until ctx is done.
func (w *PipelineStatsWorker) Start(ctx context.Context) {
	w.logger.Info("pipeline stats worker started", zap.Duration("interval", w.tickInterval))

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("pipeline stats worker stopped")
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

func (w *PipelineStatsWorker) Refresh(ctx context.Context) {
	counts, err := w.counter.CountByStage(ctx)
	if err != nil {
		w.logger.Warn("failed to count leads by stage", zap.Error(err))
		return
	}
	w.publish(counts)

	total := 0
	for _, n := range counts {
		total += n
	}
	w.logger.Debug("pipeline stats refreshed", zap.Int("leads", total))
}
