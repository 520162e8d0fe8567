package scheduler

import (
	"context"
	"time"

	"github.com/coder/quartz"

	"github.com/fadedpez/uno/internal/config"
	"github.com/fadedpez/uno/internal/logging"
	"github.com/fadedpez/uno/pkg/repositories/game"
)

// Maintenance task names
const (
	TaskSessionCleanup = "session_cleanup"
	TaskLearningPrune  = "learning_prune"
	TaskIndexRotation  = "index_rotation"
	TaskIndexPruning   = "index_pruning"
)

const (
	learningPruneInterval = 24 * time.Hour
	indexRotationInterval = 24 * time.Hour
	indexPruneInterval    = 7 * 24 * time.Hour
)

// SessionCleaner tears down sessions nobody has touched for maxAge
type SessionCleaner interface {
	CleanupIdle(ctx context.Context, maxAge time.Duration) ([]string, error)
}

// IndexMaintainer is implemented by analytics backends with time-based indices
type IndexMaintainer interface {
	RotateIndices(ctx context.Context) error
	PruneOldIndices(ctx context.Context) ([]string, error)
}

var _ IndexMaintainer = (*game.ElasticsearchRepository)(nil)

// NewMaintenance builds a scheduler with the periodic upkeep of a running
// server: idle session cleanup, learning history pruning and, when the
// analytics backend keeps monthly indices, index rotation and retention.
func NewMaintenance(sessions SessionCleaner, repo game.Repository, cfg *config.Config, clock quartz.Clock, logger *logging.Logger) *Scheduler {
	s := NewScheduler(clock, logger)
	log := s.logger.With("maintenance")

	s.AddTask(TaskSessionCleanup, cfg.CleanupInterval, func(ctx context.Context) error {
		removed, err := sessions.CleanupIdle(ctx, cfg.SessionMaxAge)
		if err != nil {
			return err
		}
		if len(removed) > 0 {
			log.Info("Removed %d idle sessions", len(removed))
		}
		return nil
	})

	if cfg.LearningRecordsKeep > 0 {
		s.AddTask(TaskLearningPrune, learningPruneInterval, func(ctx context.Context) error {
			pruned, err := repo.PruneLearningRecords(ctx, cfg.LearningRecordsKeep)
			if err != nil {
				return err
			}
			if pruned > 0 {
				log.Info("Pruned %d learning records", pruned)
			}
			return nil
		})
	}

	if indices, ok := repo.(IndexMaintainer); ok {
		s.AddTask(TaskIndexRotation, indexRotationInterval, indices.RotateIndices)
		s.AddTask(TaskIndexPruning, indexPruneInterval, func(ctx context.Context) error {
			pruned, err := indices.PruneOldIndices(ctx)
			if err != nil {
				return err
			}
			for _, index := range pruned {
				log.Info("Deleted expired index %s", index)
			}
			return nil
		})
	}

	return s
}
