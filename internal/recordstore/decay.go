package recordstore

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// StrengthenMemory applies the reinforcement-on-recall formula:
// delta = 0.1 * 0.9^accessCount; confidence = min(1, confidence+delta);
// accessCount += 1; lastAccessed = now.
func (s *Store) StrengthenMemory(id uuid.UUID) error {
	s.mu.Lock()
	r, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delta := 0.1 * math.Pow(0.9, float64(r.AccessCount))
	r.Confidence = math.Min(1, r.Confidence+delta)
	r.AccessCount++
	r.LastAccessed = time.Now()
	s.mu.Unlock()

	s.persistAsync()
	return nil
}

// ApplyTimeDecay decays confidence for every record idle longer than one
// day: factor = 0.5^(daysIdle/halfLifeDays); confidence = max(minRetention,
// confidence*factor).
func (s *Store) ApplyTimeDecay() {
	if !s.cfg.EnableTimeDecay {
		return
	}
	halfLife := s.cfg.DecayHalfLifeDays
	if halfLife <= 0 {
		halfLife = 30
	}
	minRetention := s.cfg.MinimumConfidenceForRetention
	if minRetention <= 0 {
		minRetention = 0.15
	}

	now := time.Now()
	s.mu.Lock()
	for _, r := range s.records {
		daysIdle := now.Sub(r.LastAccessed).Hours() / 24.0
		if daysIdle <= 1 {
			continue
		}
		factor := math.Pow(0.5, daysIdle/halfLife)
		r.Confidence = math.Max(minRetention, r.Confidence*factor)
	}
	s.mu.Unlock()

	s.persistAsync()
}
