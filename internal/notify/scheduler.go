package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Runner is one notification pass; services.NotificationService satisfies it.
type Runner interface {
	Run(ctx context.Context) (int, error)
}

type Scheduler struct {
	cronEngine *cron.Cron
	runner     Runner
	spec       string
	timeout    time.Duration
	log        *logrus.Logger
}

func NewScheduler(runner Runner, spec string, location *time.Location, log *logrus.Logger) *Scheduler {
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		cronEngine: cron.New(cron.WithLocation(location)),
		runner:     runner,
		spec:       spec,
		timeout:    5 * time.Minute,
		log:        log,
	}
}

// Start registers the daily job and starts the cron engine. It fails on an
// unparseable spec.
func (s *Scheduler) Start() error {
	if _, err := s.cronEngine.AddFunc(s.spec, s.runOnce); err != nil {
		return fmt.Errorf("add notification job %q: %w", s.spec, err)
	}
	s.cronEngine.Start()
	s.log.WithField("spec", s.spec).Info("notification scheduler started")
	return nil
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	sent, err := s.runner.Run(ctx)
	if err != nil {
		s.log.WithError(err).Error("notification run failed")
		return
	}
	s.log.WithField("sent", sent).Info("notification run finished")
}

// Stop waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.log.Info("stopping notification scheduler")
	select {
	case <-s.cronEngine.Stop().Done():
	case <-ctx.Done():
	}
}
