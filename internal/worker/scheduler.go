package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"chitieu/internal/log"
)

// SchedulerConfig drives the periodic jobs.
type SchedulerConfig struct {
	// PruneSchedule is a cron expression or descriptor such as "@daily".
	PruneSchedule string
	Retention     time.Duration
	// MirrorInterval paces the mirror catch-up; ignored without a mirror.
	MirrorInterval time.Duration
	// JobTimeout bounds a single run of either job.
	JobTimeout time.Duration
}

func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		PruneSchedule:  "@daily",
		Retention:      90 * 24 * time.Hour,
		MirrorInterval: time.Minute,
		JobTimeout:     2 * time.Minute,
	}
}

// Scheduler runs journal retention and mirror catch-up on a cron.
type Scheduler struct {
	worker *JournalWorker
	config SchedulerConfig
	logger *log.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewScheduler(w *JournalWorker, config SchedulerConfig) *Scheduler {
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultSchedulerConfig().JobTimeout
	}
	return &Scheduler{worker: w, config: config, logger: w.logger}
}

// Start registers the jobs and starts the cron. Jobs run with a context
// derived from ctx, so cancelling it aborts a run in progress.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("scheduler is already running")
	}

	c := cron.New()
	if _, err := c.AddFunc(s.config.PruneSchedule, func() { s.runPrune(ctx) }); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", s.config.PruneSchedule, err)
	}
	if s.worker.Mirroring() && s.config.MirrorInterval > 0 {
		spec := "@every " + s.config.MirrorInterval.String()
		if _, err := c.AddFunc(spec, func() { s.runMirror(ctx) }); err != nil {
			return fmt.Errorf("invalid mirror interval %s: %w", s.config.MirrorInterval, err)
		}
	}
	c.Start()
	s.cron = c
	s.running = true

	s.logger.InfoContext(ctx, "Scheduler started",
		"prune_schedule", s.config.PruneSchedule,
		"retention", s.config.Retention,
		"mirror_interval", s.config.MirrorInterval,
		"jobs", len(c.Entries()))
	return nil
}

// Stop stops the cron and waits for running jobs until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	c := s.cron
	s.running = false
	s.mu.Unlock()

	select {
	case <-c.Stop().Done():
		s.logger.InfoContext(ctx, "Scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "Scheduler stop timed out")
		return ctx.Err()
	}
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return 0
	}
	return len(s.cron.Entries())
}

func (s *Scheduler) runPrune(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.config.JobTimeout)
	defer cancel()
	if _, err := s.worker.Prune(ctx, s.config.Retention); err != nil {
		s.logger.ErrorContext(ctx, "Scheduled prune failed", log.FieldError, err)
	}
}

func (s *Scheduler) runMirror(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, s.config.JobTimeout)
	defer cancel()
	if _, err := s.worker.MirrorPending(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Mirror catch-up failed", log.FieldError, err)
	}
}
