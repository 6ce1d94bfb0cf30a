package longterm

import (
	"context"
	"time"
)

// StartDecayWorker runs DecayUnusedFacts on a ticker at cfg.DecayInterval
// until the store is closed.
func (s *Store) StartDecayWorker() {
	interval := s.cfg.DecayInterval
	if interval <= 0 {
		interval = time.Hour
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.DecayUnusedFacts()
			case <-ctx.Done():
				return
			}
		}
	}()
}
