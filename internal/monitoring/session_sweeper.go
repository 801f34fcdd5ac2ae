package monitoring

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/nmoreau/access-portal-be/internal/auth"
)

// SessionSweeper periodically removes expired sessions from the store so the
// map does not grow without bound under long uptimes.
type SessionSweeper struct {
	store    *auth.Store
	interval time.Duration
	cron     *cron.Cron
}

// NewSessionSweeper creates a sweeper that prunes at the given interval.
func NewSessionSweeper(store *auth.Store, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		interval: interval,
		cron:     cron.New(),
	}
}

// Run starts the sweep schedule. It returns once the schedule is installed;
// sweeps run on the cron's own goroutine.
func (s *SessionSweeper) Run() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	s.cron.Start()
	log.Info().Str("interval", s.interval.String()).Msg("Session sweeper started")
	return nil
}

// Stop halts the sweeper, waiting for an in-flight sweep to finish.
func (s *SessionSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Session sweeper stopped")
}

func (s *SessionSweeper) sweep() {
	if removed := s.store.PruneExpired(); removed > 0 {
		log.Debug().Int("removed", removed).Msg("Pruned expired sessions")
	}
}
