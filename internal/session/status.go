package session

import (
	"time"

	"github.com/frameseek/frameseek-client/internal/domain/entity"
)

// Status messenger: at most one expiry timer is pending at a time. Setting a
// new status bumps the generation and cancels any scheduled clear, so a late
// timer can never wipe a newer message. Error statuses never expire.

// setStatusLocked installs a status message; expire arms the self-clear
// timer. Caller holds s.mu.
func (s *Store) setStatusLocked(text string, isError, expire bool) {
	s.cancelStatusTimerLocked()
	s.statusGen++
	s.session.Status = &entity.StatusMessage{Text: text, IsError: isError}

	if expire && s.statusTTL > 0 {
		gen := s.statusGen
		s.statusTimer = time.AfterFunc(s.statusTTL, func() {
			s.expireStatus(gen)
		})
	}
}

// clearStatusLocked drops the status and any pending expiry. Caller holds s.mu.
func (s *Store) clearStatusLocked() {
	s.cancelStatusTimerLocked()
	s.statusGen++
	s.session.Status = nil
}

func (s *Store) cancelStatusTimerLocked() {
	if s.statusTimer != nil {
		s.statusTimer.Stop()
		s.statusTimer = nil
	}
}

// expireStatus clears the status set at generation gen, if it is still the
// one on display.
func (s *Store) expireStatus(gen int) {
	s.mu.Lock()
	if s.statusGen != gen || s.session.Status == nil {
		s.mu.Unlock()
		return
	}
	s.session.Status = nil
	s.statusTimer = nil

	s.finish(false)
}
