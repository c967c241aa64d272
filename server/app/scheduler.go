package app

import (
	"context"
	"sync"

	"github.com/ericzzh/mattermost-prune/server/bot"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

// Job is one full pass, typically opening its own connection.
type Job func(ctx context.Context) (*Result, error)

// Scheduler runs a Job on a cron schedule. A pass never starts while the previous one
// is still running.
type Scheduler struct {
	schedule string
	job      Job
	logger   bot.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewScheduler(schedule string, job Job, logger bot.Logger) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		job:      job,
		logger:   logger,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

// Start validates the schedule and starts it. Passes get ctx; Stop is called once ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("scheduler already started")
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return errors.Wrapf(err, "invalid cron schedule %q", s.schedule)
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.runJob(ctx) }); err != nil {
		return errors.Wrap(err, "failed to schedule prune")
	}

	s.cron.Start()
	s.running = true
	s.logger.Infof("Prune: scheduler started. schedule: %s", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runJob(ctx context.Context) {
	s.logger.Infof("Prune: scheduled run starting.")

	res, err := s.job(ctx)
	if err != nil {
		s.logger.Errorf("Prune: scheduled run failed: %v", err)
		return
	}

	s.logger.Infof("Prune: scheduled run %s completed. files removed: %d, FileInfo rows: %d, Posts rows: %d",
		res.RunId, res.Stats.FilesRemoved, res.Stats.FileInfosDeleted, res.Stats.PostsDeleted)
}

// Stop stops the schedule and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Infof("Prune: scheduler stopped.")
}
