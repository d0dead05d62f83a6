package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"edumaster/web/internal/config"
	"edumaster/web/internal/session"
)

const jobTimeout = 30 * time.Second

type SessionRefresher interface {
	State() session.State
	RefreshIfExpiring(ctx context.Context, ahead time.Duration) error
}

type NotificationFetcher interface {
	Fetch(ctx context.Context, userID int64, page, size int) error
}

// Scheduler runs the background session jobs: refreshing the access token
// before it lapses and polling the signed-in user's notifications.
type Scheduler struct {
	cron          *cron.Cron
	cfg           config.JobsConfig
	sessions      SessionRefresher
	notifications NotificationFetcher
	log           zerolog.Logger
}

func NewScheduler(cfg config.JobsConfig, sessions SessionRefresher, notifications NotificationFetcher, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "jobs").Logger()
	c := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(&log)),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	return &Scheduler{
		cron:          c,
		cfg:           cfg,
		sessions:      sessions,
		notifications: notifications,
		log:           log,
	}
}

func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("background jobs disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.RefreshSpec, s.refreshTokens); err != nil {
		return fmt.Errorf("schedule token refresh %q: %w", s.cfg.RefreshSpec, err)
	}
	if s.notifications != nil && s.cfg.NotificationSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.NotificationSpec, s.pollNotifications); err != nil {
			return fmt.Errorf("schedule notification poll %q: %w", s.cfg.NotificationSpec, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop waits up to the deadline of ctx for running jobs to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("jobs still running at shutdown")
	}
}

// refreshTokens refreshes ahead of expiry. A failed refresh has already torn
// the session down by the time it returns.
func (s *Scheduler) refreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.sessions.RefreshIfExpiring(ctx, s.cfg.RefreshAhead); err != nil {
		s.log.Warn().Err(err).Msg("proactive token refresh failed")
	}
}

func (s *Scheduler) pollNotifications() {
	state := s.sessions.State()
	if !state.IsAuthenticated || state.User == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.notifications.Fetch(ctx, state.User.ID, 0, 20); err != nil {
		s.log.Debug().Err(err).Int64("user_id", state.User.ID).Msg("notification poll failed")
	}
}
