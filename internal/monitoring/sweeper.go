package monitoring

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// TokenSweepStore is the slice of the token store the sweeper needs.
type TokenSweepStore interface {
	DeleteExpired(now time.Time) (int64, error)
}

// Sweeper periodically deletes expired token rows. Expiry is already
// enforced lazily at check time; the sweep only keeps the table small.
type Sweeper struct {
	tokens   TokenSweepStore
	schedule cron.Schedule
	done     chan bool
}

// NewSweeper creates a sweeper from a standard cron spec (e.g. "@hourly").
func NewSweeper(tokens TokenSweepStore, spec string) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, err
	}
	return &Sweeper{tokens: tokens, schedule: schedule, done: make(chan bool)}, nil
}

// Run blocks, sweeping on the configured schedule until Stop is called.
func (s *Sweeper) Run() {
	log.Info().Msg("Starting expired-token sweeper")
	for {
		next := s.schedule.Next(time.Now())
		select {
		case <-s.done:
			log.Info().Msg("Stopping expired-token sweeper")
			return
		case <-time.After(time.Until(next)):
			s.sweep()
		}
	}
}

// Stop halts the sweeper.
func (s *Sweeper) Stop() {
	s.done <- true
}

func (s *Sweeper) sweep() {
	n, err := s.tokens.DeleteExpired(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: failed to delete expired tokens")
		return
	}
	if n > 0 {
		log.Info().Int64("deleted", n).Msg("Sweeper: removed expired tokens")
	}
}
