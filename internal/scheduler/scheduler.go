// Package scheduler fires full catalog crawls on a cron schedule.
package scheduler

import (
	"fmt"

	"storefront/internal/logger"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger
}

// New registers trigger under the standard five-field cron spec. An empty
// spec yields a scheduler that never fires.
func New(spec string, trigger func(), logger *logger.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		logger: logger.WithPrefix("scheduler"),
	}
	if spec == "" {
		s.logger.Info("No sync schedule configured")
		return s, nil
	}

	_, err := s.cron.AddFunc(spec, func() {
		s.logger.Info("Scheduled crawl triggered")
		trigger()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse sync schedule %q: %w", spec, err)
	}
	s.logger.Info("Full crawl scheduled at %q", spec)
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running trigger to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Entries returns the number of scheduled jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
