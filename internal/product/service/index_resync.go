package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ridloal/mini-store/internal/platform/logger"
)

const resyncTimeout = 5 * time.Minute

// IndexResyncScheduler periodically rebuilds the search index from the database, bounding how
// long a missed index write can stay visible.
type IndexResyncScheduler struct {
	scheduler *cron.Cron
	catalog   CatalogService
	schedule  string
}

func NewIndexResyncScheduler(catalog CatalogService, schedule string) (*IndexResyncScheduler, error) {
	s := &IndexResyncScheduler{
		scheduler: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		catalog:   catalog,
		schedule:  schedule,
	}
	if _, err := s.scheduler.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid index resync schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *IndexResyncScheduler) Start() {
	s.scheduler.Start()
	logger.Info("Index resync scheduler started", zap.String("schedule", s.schedule))
}

// Stop waits for a running resync to finish.
func (s *IndexResyncScheduler) Stop() {
	<-s.scheduler.Stop().Done()
}

func (s *IndexResyncScheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, resyncTimeout)
	defer cancel()

	started := time.Now()
	result, err := s.catalog.Reindex(ctx)
	if err != nil {
		logger.Warn("Index resync failed", zap.Error(err))
		return
	}
	logger.Info("Index resync finished",
		zap.Int("indexed", result.Indexed),
		zap.Int("removed", result.Removed),
		zap.Int("failed", result.Failed),
		zap.Duration("took", time.Since(started)),
	)
}
