package modules

import (
	"context"
	"sync/atomic"
	"time"

	Logger "github.com/Luismorlan/publicfeed/utils/log"
	"github.com/Luismorlan/publicfeed/warmer"
	"github.com/google/uuid"
)

type SchedulerConfig struct {
	// Name of the scheduler.
	Name string
	// Interval between two warm up jobs.
	Interval time.Duration
	// Number of items each job warms.
	Limit int
	// Delay before the first job, gives subscribers time to attach.
	StartDelay time.Duration
}

// Scheduler emits a warm up job right after StartDelay and then every
// Interval, until its context is done.
type Scheduler struct {
	Config SchedulerConfig

	doer JobDoer

	// How many jobs this scheduler handed to the doer.
	runCount int64
}

// Return a new instance of Scheduler.
func NewScheduler(config SchedulerConfig, doer JobDoer) *Scheduler {
	return &Scheduler{
		Config: config,
		doer:   doer,
	}
}

func (s *Scheduler) RunModule(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return nil
	case <-time.After(s.Config.StartDelay):
	}

	ticker := time.NewTicker(s.Config.Interval)
	defer ticker.Stop()

	for {
		s.schedule()
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) schedule() {
	job := &warmer.WarmUpJob{
		JobId:       uuid.NewString(),
		Limit:       s.Config.Limit,
		ScheduledAt: time.Now().UTC(),
	}
	if err := s.doer.Do(job); err != nil {
		Logger.Log.WithError(err).Errorf("scheduler %s fail to schedule warm up job %s", s.Name(), job.JobId)
		return
	}
	atomic.AddInt64(&s.runCount, 1)
}

func (s *Scheduler) RunCount() int64 {
	return atomic.LoadInt64(&s.runCount)
}

func (s *Scheduler) Name() string {
	return s.Config.Name
}

func (s *Scheduler) Shutdown() {}
