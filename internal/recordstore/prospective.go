package recordstore

import (
	"context"

	"github.com/axiom-mind/memengine/internal/domain"
)

// StoreProspective records a future intention under the given trigger,
// starting it in the Pending state of the prospective-memory state machine.
func (s *Store) StoreProspective(ctx context.Context, intention string, trigger domain.Trigger) (*domain.Record, error) {
	r := domain.NewRecord(domain.KindProspective, "intention", intention, intention, 1.0, domain.SourceExplicit)
	r.Metadata = &domain.Metadata{
		Prospective: &domain.ProspectiveMeta{
			Trigger:     trigger,
			IsTriggered: false,
		},
	}
	if err := s.Store(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// CheckProspective evaluates every pending (untriggered) prospective record's
// trigger against the given context snapshot. Records whose trigger becomes
// satisfied transition to Triggered and are returned; Consolidate later
// removes them on its next pass.
func (s *Store) CheckProspective(snap domain.ContextSnapshot) []*domain.Record {
	s.mu.Lock()
	var triggered []*domain.Record
	for _, r := range s.records {
		if r.Kind != domain.KindProspective || r.Metadata == nil || r.Metadata.Prospective == nil {
			continue
		}
		meta := r.Metadata.Prospective
		if meta.IsTriggered {
			continue
		}
		if meta.Trigger.IsSatisfied(snap) {
			meta.IsTriggered = true
			triggered = append(triggered, r)
		}
	}
	s.mu.Unlock()

	if len(triggered) > 0 {
		s.persistAsync()
		if s.logger != nil {
			s.logger.Infow("prospective memories triggered", "count", len(triggered))
		}
	}
	return triggered
}
