package recordstore

import (
	"context"
	"time"
)

// StartBackgroundWorker runs a background goroutine that applies time decay
// on every tick and consolidates every consolidateEvery ticks.
func (s *Store) StartBackgroundWorker(decayInterval time.Duration, consolidateEvery int) {
	if decayInterval <= 0 {
		decayInterval = time.Hour
	}
	if consolidateEvery <= 0 {
		consolidateEvery = 24
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		ticker := time.NewTicker(decayInterval)
		defer ticker.Stop()

		tick := 0
		for {
			select {
			case <-ticker.C:
				s.ApplyTimeDecay()
				tick++
				if tick%consolidateEvery == 0 {
					s.Consolidate()
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
