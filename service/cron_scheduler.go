package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"cw-forecast/logger"
)

const defaultJobTimeout = 5 * time.Minute

// CronScheduler runs named jobs with robfig/cron. Overlapping runs of the same job
// are skipped.
type CronScheduler struct {
	cron    *cron.Cron
	jobs    map[string]cron.EntryID
	timeout time.Duration
	mu      sync.RWMutex
	log     logger.Logger
}

// NewCronScheduler starts an empty scheduler. Each job run gets timeout, or
// five minutes when timeout is not positive.
func NewCronScheduler(timeout time.Duration, log logger.Logger) *CronScheduler {
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	if log == nil {
		log = logger.Discard()
	}
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &CronScheduler{
		cron:    c,
		jobs:    make(map[string]cron.EntryID),
		timeout: timeout,
		log:     logger.Component(log, "cron_scheduler"),
	}
	c.Start()
	s.log.Infof("Cron scheduler started")
	return s
}

// Schedule registers task under name. The parent ctx bounds every run.
func (s *CronScheduler) Schedule(ctx context.Context, name string, interval time.Duration, task func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job with name '%s' already exists", name)
	}

	expr := intervalToCron(interval)
	s.log.Infof("Scheduling job '%s' with interval %v (cron: %s)", name, interval, expr)

	entryID, err := s.cron.AddFunc(expr, func() {
		s.runTask(ctx, name, task)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule job '%s': %w", name, err)
	}
	s.jobs[name] = entryID
	return nil
}

// Jobs returns the registered job names.
func (s *CronScheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

func (s *CronScheduler) runTask(parent context.Context, name string, task func(ctx context.Context) error) {
	if parent.Err() != nil {
		return
	}
	started := time.Now()
	s.log.Infof("Starting scheduled job: %s", name)

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	if err := task(ctx); err != nil {
		s.log.Errorf("Job '%s' failed after %v: %v", name, time.Since(started), err)
		return
	}
	s.log.Infof("Job '%s' completed in %v", name, time.Since(started))
}

// Stop waits for running jobs and removes every job.
func (s *CronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	<-s.cron.Stop().Done()
	for _, id := range s.jobs {
		s.cron.Remove(id)
	}
	s.jobs = make(map[string]cron.EntryID)
	s.log.Infof("Cron scheduler stopped")
}

// intervalToCron maps an interval onto a seconds-field cron expression. Intervals
// that do not divide a minute, an hour or a day evenly fall back to @every.
func intervalToCron(interval time.Duration) string {
	if interval <= 0 {
		return "@every 1h"
	}
	if interval < 10*time.Second {
		interval = 10 * time.Second
	}

	switch {
	case interval < time.Minute && time.Minute%interval == 0 && interval%time.Second == 0:
		return fmt.Sprintf("*/%d * * * * *", int(interval.Seconds()))
	case interval < time.Hour && interval%time.Minute == 0 && time.Hour%interval == 0:
		return fmt.Sprintf("0 */%d * * * *", int(interval.Minutes()))
	case interval < 24*time.Hour && interval%time.Hour == 0 && (24*time.Hour)%interval == 0:
		return fmt.Sprintf("0 0 */%d * * *", int(interval.Hours()))
	case interval == 24*time.Hour:
		return "0 0 0 * * *"
	}
	return "@every " + interval.String()
}
