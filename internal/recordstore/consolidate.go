package recordstore

import (
	"time"

	"github.com/axiom-mind/memengine/internal/domain"
)

// Consolidate prunes semantic records older than 30 days with confidence <
// 0.3, archives (log-only) episodic records older than 90 days, drops
// triggered prospective records, evicts the cache down to capacity, and
// persists.
func (s *Store) Consolidate() {
	now := time.Now()

	s.mu.Lock()
	var kept []*domain.Record
	var archived, pruned, droppedProspective int
	for _, r := range s.records {
		age := now.Sub(r.CreatedAt)

		if r.Kind == domain.KindSemantic && age > 30*24*time.Hour && r.Confidence < 0.3 {
			pruned++
			delete(s.byID, r.ID)
			s.cache.Remove(r.Key)
			continue
		}

		if r.Kind == domain.KindEpisodic && age > 90*24*time.Hour {
			archived++
			// Archiving is log-only: the record stays in the primary set,
			// just flagged for an operator-visible audit trail.
		}

		if r.Kind == domain.KindProspective && r.Metadata != nil && r.Metadata.Prospective != nil && r.Metadata.Prospective.IsTriggered {
			droppedProspective++
			delete(s.byID, r.ID)
			s.cache.Remove(r.Key)
			continue
		}

		kept = append(kept, r)
	}
	s.records = kept

	for s.cache.Len() > s.cfg.MaxCacheSize {
		s.cache.RemoveOldest()
	}
	s.mu.Unlock()

	s.persistAsync()

	if s.logger != nil {
		s.logger.Infow("consolidation complete",
			"pruned_semantic", pruned,
			"archived_episodic", archived,
			"dropped_prospective", droppedProspective,
		)
	}
}
