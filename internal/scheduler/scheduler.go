package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

type TaskFn func(ctx context.Context) error

// Scheduler runs background jobs. Each job runs in singleton mode and a
// panicking job is logged instead of taking the process down.
type Scheduler struct {
	scheduler gocron.Scheduler
	log       *logrus.Logger
}

func New(log *logrus.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, log: log}, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		s.log.Warnf("scheduler shutdown: %v", err)
	}
}

func (s *Scheduler) NewIntervalJob(name string, fn TaskFn, interval time.Duration, startImmediately bool) error {
	opts := []gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}
	if _, err := s.scheduler.NewJob(gocron.DurationJob(interval), gocron.NewTask(s.withRecover(name, fn)), opts...); err != nil {
		return fmt.Errorf("create job %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) withRecover(name string, fn TaskFn) func(ctx context.Context) {
	return func(ctx context.Context) {
		entry := s.log.WithField("job", name)
		defer func() {
			if r := recover(); r != nil {
				entry.WithField("stacktrace", string(debug.Stack())).Errorf("job panicked: %v", r)
			}
		}()

		entry.Debug("job start")
		if err := fn(ctx); err != nil {
			entry.Errorf("job failed: %v", err)
			return
		}
		entry.Debug("job completed")
	}
}
