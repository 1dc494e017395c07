package bot

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Purger drops state that has been idle longer than maxIdle.
type Purger interface {
	Purge(now time.Time, maxIdle time.Duration) int
}

// Scheduler runs the bot's periodic maintenance.
type Scheduler struct {
	purger   Purger
	interval time.Duration
	maxIdle  time.Duration
	logger   *zap.Logger
	now      func() time.Time

	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

// NewScheduler creates a scheduler that purges idle cooldown entries every interval.
func NewScheduler(purger Purger, interval, maxIdle time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		purger:   purger,
		interval: interval,
		maxIdle:  maxIdle,
		logger:   logger,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.startCooldownCleaner()
	})
}

// Stop terminates all scheduled tasks and waits for them to exit. It is safe
// to call without Start and more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("stopping scheduler")
		close(s.done)
		s.wg.Wait()
		s.logger.Info("scheduler stopped")
	})
}

func (s *Scheduler) startCooldownCleaner() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupCooldowns()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) cleanupCooldowns() {
	removed := s.purger.Purge(s.now(), s.maxIdle)
	if removed > 0 {
		s.logger.Debug("purged idle cooldowns", zap.Int("removed", removed))
	}
}
