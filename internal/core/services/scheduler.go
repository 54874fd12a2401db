package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/campus-labs/studysync-core/internal/core/domain"
	"github.com/campus-labs/studysync-core/internal/core/ports/driven"
)

// Scheduler periodically re-enqueues sync tasks for courses whose
// refresh interval has elapsed. It runs on worker nodes.
//
// For multi-worker deployments, configure a DistributedLock to prevent
// duplicate task enqueuing across instances.
type Scheduler struct {
	settings driven.SyncSettingsStore
	queue    driven.TaskQueue
	lock     driven.DistributedLock
	logger   *slog.Logger

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	interval     time.Duration
	lockTTL      time.Duration
	lockRequired bool
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	Settings     driven.SyncSettingsStore
	Queue        driven.TaskQueue
	Lock         driven.DistributedLock // Optional: coordination across instances
	Logger       *slog.Logger
	PollInterval time.Duration // How often to check for due refreshes (default: 1m)
	LockTTL      time.Duration // TTL for the distributed lock (default: 2m)
	LockRequired bool          // If true, skip the cycle when the lock cannot be acquired
}

// NewScheduler creates a new refresh scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.PollInterval
	if interval == 0 {
		interval = time.Minute
	}

	lockTTL := cfg.LockTTL
	if lockTTL == 0 {
		lockTTL = 2 * time.Minute
	}

	lockRequired := cfg.LockRequired
	if cfg.Lock != nil {
		lockRequired = true
	}

	return &Scheduler{
		settings:     cfg.Settings,
		queue:        cfg.Queue,
		lock:         cfg.Lock,
		logger:       logger,
		interval:     interval,
		lockTTL:      lockTTL,
		lockRequired: lockRequired,
	}
}

// Start begins the scheduler loop. It runs until Stop is called or the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("refresh scheduler starting", "poll_interval", s.interval)

	go s.run(ctx)

	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.mu.Unlock()

	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("refresh scheduler stopped")
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.checkAndEnqueue(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler context cancelled")
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.checkAndEnqueue(ctx)
		}
	}
}

// checkAndEnqueue enqueues sync tasks for every course that is due a
// refresh. If a distributed lock is configured, it is acquired first so
// only one scheduler instance enqueues per cycle.
func (s *Scheduler) checkAndEnqueue(ctx context.Context) {
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, "refresh-scheduler", s.lockTTL)
		if err != nil {
			s.logger.Warn("failed to acquire scheduler lock", "error", err)
			if s.lockRequired {
				return
			}
		} else if !acquired {
			s.logger.Debug("scheduler lock held by another instance, skipping cycle")
			return
		} else {
			defer func() {
				if err := s.lock.Release(ctx, "refresh-scheduler"); err != nil {
					s.logger.Warn("failed to release scheduler lock", "error", err)
				}
			}()
		}
	}

	due, err := s.settings.DueForRefresh(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to list courses due for refresh", "error", err)
		return
	}

	for i := range due {
		settings := &due[i]
		task := domain.NewCourseSyncTask(settings.CourseID, settings.WifiOnly)

		if err := s.queue.Enqueue(ctx, task); err != nil {
			s.logger.Error("failed to enqueue refresh task",
				"course_id", settings.CourseID,
				"error", err,
			)
			continue
		}

		s.logger.Info("enqueued refresh task",
			"course_id", settings.CourseID,
			"task_id", task.ID,
		)

		// Advance LastSyncedAt so the course is not re-enqueued next
		// cycle while the task is still queued. The sync run overwrites
		// it with the real finish time.
		if err := s.settings.TouchSynced(ctx, settings.CourseID, time.Now()); err != nil {
			s.logger.Warn("failed to advance refresh marker",
				"course_id", settings.CourseID,
				"error", err,
			)
		}
	}
}
