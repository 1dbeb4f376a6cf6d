package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Skotchmaster/kamishop/internal/logging"
	"github.com/Skotchmaster/kamishop/internal/metrics"
)

const runTimeout = 2 * time.Minute

// Task is one maintenance run; it reports how many rows it touched.
type Task func(ctx context.Context) (int64, error)

type Job struct {
	Name string
	Spec string
	Run  Task
}

type Scheduler struct {
	cron *cron.Cron
	log  *zap.SugaredLogger
}

// New registers every job with a non-empty spec. Overlapping runs of the same
// job are skipped.
func New(log *zap.SugaredLogger, loc *time.Location, jobs ...Job) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	s := &Scheduler{cron: c, log: log}

	for _, j := range jobs {
		if j.Spec == "" {
			continue
		}
		j := j
		if _, err := c.AddFunc(j.Spec, func() { s.run(j) }); err != nil {
			return nil, fmt.Errorf("schedule %s %q: %w", j.Name, j.Spec, err)
		}
		log.Infow("job_scheduled", "job", j.Name, "spec", j.Spec)
	}
	return s, nil
}

func (s *Scheduler) run(j Job) {
	ctx, cancel := context.WithTimeout(logging.IntoContext(context.Background(), s.log.With("job", j.Name)), runTimeout)
	defer cancel()

	n, err := j.Run(ctx)
	if err != nil {
		metrics.JobRuns.WithLabelValues(j.Name, "error").Inc()
		s.log.Errorw("job_failed", "job", j.Name, "error", err)
		return
	}
	metrics.JobRuns.WithLabelValues(j.Name, "ok").Inc()
	s.log.Infow("job_done", "job", j.Name, "affected", n)
}

func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
