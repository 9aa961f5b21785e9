package scheduler

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	"github.com/Sphere-Cloud/SyncPoShopify/internal/cache"
	"github.com/Sphere-Cloud/SyncPoShopify/internal/sync"
)

const lockKey = "syncposhopify:cycle_lock"

// Config holds scheduler settings.
type Config struct {
	// Interval is how often a synchronization cycle runs.
	Interval time.Duration

	// LockTTL is the single-flight lock lease. Must exceed the longest
	// expected cycle; the lock is released as soon as the cycle ends.
	LockTTL time.Duration
}

// Scheduler runs synchronization cycles on a fixed interval. Cycles are
// strictly serialized: in-process via a mutex, across replicas via a Redis
// lock when a locker is provided. A tick that finds a cycle already running
// is skipped, never queued.
type Scheduler struct {
	orch      *sync.Orchestrator
	summaries cache.SummaryStore
	locker    *redislock.Client
	config    Config
	log       logrus.FieldLogger

	runMu     gosync.Mutex
	ticker    *time.Ticker
	stopCh    chan struct{}
	stopOnce  gosync.Once
	isRunning bool
	mu        gosync.Mutex
}

// New creates a scheduler. locker may be nil when Redis is not configured;
// serialization is then in-process only.
func New(orch *sync.Orchestrator, summaries cache.SummaryStore, locker *redislock.Client, config Config, log logrus.FieldLogger) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Minute
	}
	if config.LockTTL <= 0 {
		config.LockTTL = 15 * time.Minute
	}

	return &Scheduler{
		orch:      orch,
		summaries: summaries,
		locker:    locker,
		config:    config,
		log:       log,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the cycle loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.ticker = time.NewTicker(s.config.Interval)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"interval": s.config.Interval,
		"lock_ttl": s.config.LockTTL,
	}).Info("sync scheduler started")

	go s.run()
}

func (s *Scheduler) run() {
	for {
		select {
		case <-s.ticker.C:
			s.runCycle(context.Background())
		case <-s.stopCh:
			s.log.Info("sync scheduler stopped")
			return
		}
	}
}

// RunNow executes one cycle immediately and returns its summary. Used by the
// admin surface; shares the same serialization as scheduled cycles.
func (s *Scheduler) RunNow(ctx context.Context) sync.Summary {
	return s.runCycle(ctx)
}

func (s *Scheduler) runCycle(ctx context.Context) sync.Summary {
	if !s.runMu.TryLock() {
		s.log.Warn("cycle already running, skipping")
		return sync.Summary{Status: sync.StatusFailed, Error: "cycle already running"}
	}
	defer s.runMu.Unlock()

	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, lockKey, s.config.LockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			s.log.Warn("cycle lock held elsewhere, skipping")
			return sync.Summary{Status: sync.StatusFailed, Error: "cycle lock held elsewhere"}
		} else if err != nil {
			s.log.WithError(err).Error("failed to obtain cycle lock")
			return sync.Summary{Status: sync.StatusFailed, Error: err.Error()}
		}
		defer func() {
			_ = lock.Release(ctx)
		}()
	}

	summary := s.orch.Execute(ctx)

	if err := s.summaries.SetLast(ctx, summary); err != nil {
		s.log.WithError(err).Warn("failed to store cycle summary")
	}
	return summary
}

// Stop stops the scheduler. A cycle in flight finishes normally.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.stopCh)
		s.isRunning = false
	})
}
