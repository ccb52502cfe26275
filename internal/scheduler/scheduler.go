package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// SessionSweeper drops quiz sessions that have been idle too long.
type SessionSweeper interface {
	SweepSessions(ctx context.Context) int
}

// WeeklyGoalRoller resets weekly goal counters whose week has ended.
type WeeklyGoalRoller interface {
	RollWeeklyGoals(ctx context.Context) (int, error)
}

type Config struct {
	Sessions      SessionSweeper
	WeeklyGoals   WeeklyGoalRoller
	Log           *logrus.Logger
	SweepInterval time.Duration
	RollInterval  time.Duration
}

// Scheduler manages the periodic maintenance jobs of the service
type Scheduler struct {
	scheduler *gocron.Scheduler
	cfg       Config
}

func New(cfg Config) *Scheduler {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 5 * time.Minute
	}
	if cfg.RollInterval <= 0 {
		cfg.RollInterval = time.Hour
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}

	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{scheduler: s, cfg: cfg}
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	if s.cfg.Sessions != nil {
		if _, err := s.scheduler.Every(s.cfg.SweepInterval).Do(s.sweepSessions); err != nil {
			return err
		}
	}
	if s.cfg.WeeklyGoals != nil {
		if _, err := s.scheduler.Every(s.cfg.RollInterval).Do(s.rollWeeklyGoals); err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) sweepSessions() {
	if n := s.cfg.Sessions.SweepSessions(context.Background()); n > 0 {
		s.cfg.Log.WithField("count", n).Info("expired quiz sessions swept")
	}
}

func (s *Scheduler) rollWeeklyGoals() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RollInterval)
	defer cancel()

	n, err := s.cfg.WeeklyGoals.RollWeeklyGoals(ctx)
	if err != nil {
		s.cfg.Log.WithError(err).Error("weekly goal rollover failed")
		return
	}
	if n > 0 {
		s.cfg.Log.WithField("count", n).Info("weekly goals rolled over")
	}
}
