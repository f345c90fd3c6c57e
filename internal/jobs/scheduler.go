// Package jobs owns the background maintenance schedule. The scheduler is
// an explicit handle created and stopped by the process bootstrap, not a
// module-level singleton.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"auctionhub/api/internal/service"
)

type Scheduler struct {
	cron     *cron.Cron
	tokens   *service.TokenService
	schedule string
	log      zerolog.Logger
}

func NewScheduler(tokens *service.TokenService, schedule string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		tokens:   tokens,
		schedule: schedule,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweepTokens); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.schedule).Msg("token sweep scheduled")
	return nil
}

// Stop halts scheduling and waits briefly for a running sweep to finish.
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) sweepTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.tokens.SweepExpired(ctx)
}
