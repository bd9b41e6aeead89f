package scheduler

import (
	"context"
	"sync"
	"time"

	"auction-engine/utils"
)

// Job is a named piece of periodic work
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs each job once at start and then on its own ticker until
// Stop is called.
type Scheduler struct {
	jobs   []Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func New(jobs ...Job) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{jobs: jobs, ctx: ctx, cancel: cancel}
}

// Start launches one goroutine per job. Jobs with a non-positive interval
// are skipped.
func (s *Scheduler) Start() {
	for _, job := range s.jobs {
		if job.Interval <= 0 || job.Run == nil {
			utils.Warn("scheduler: job disabled", map[string]any{"job": job.Name})
			continue
		}
		s.wg.Add(1)
		go s.loop(job)
	}
}

func (s *Scheduler) loop(job Job) {
	defer s.wg.Done()

	s.runOnce(job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	utils.Info("scheduler: job started", map[string]any{"job": job.Name, "interval": job.Interval.String()})

	for {
		select {
		case <-ticker.C:
			s.runOnce(job)
		case <-s.ctx.Done():
			utils.Info("scheduler: job stopped", map[string]any{"job": job.Name})
			return
		}
	}
}

func (s *Scheduler) runOnce(job Job) {
	start := time.Now()
	if err := job.Run(s.ctx); err != nil {
		utils.Error("scheduler: job failed", map[string]any{
			"job":   job.Name,
			"error": err.Error(),
		})
		return
	}
	utils.Debug("scheduler: job finished", map[string]any{"job": job.Name, "took": time.Since(start).String()})
}

// Stop cancels running jobs and waits for them to return, or for ctx to be
// done. It reports false when the jobs did not stop in time.
func (s *Scheduler) Stop(ctx context.Context) bool {
	s.once.Do(s.cancel)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
