package reminder

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Sweeper runs the hourly reminder resync in the background, keeping the
// trigger horizon rolling forward and healing any drift between schedules
// and the notification store.
type Sweeper struct {
	cron  *cron.Cron
	sched *Scheduler
	log   zerolog.Logger
}

func NewSweeper(sched *Scheduler, log zerolog.Logger) *Sweeper {
	return &Sweeper{cron: cron.New(), sched: sched, log: log}
}

// Start registers the hourly sweep and starts the cron loop. The returned
// error only covers schedule registration; run errors are logged.
func (s *Sweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc("@hourly", func() {
		if err := s.sched.ResyncAll(ctx); err != nil {
			s.log.Error().Err(err).Msg("hourly reminder sweep failed")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Msg("reminder sweep scheduled hourly")
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}
