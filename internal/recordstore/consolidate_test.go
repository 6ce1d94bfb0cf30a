package recordstore

import (
	"context"
	"testing"
	"time"

	"github.com/axiom-mind/memengine/internal/domain"
)

func TestConsolidatePrunesWeakOldSemanticRecords(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	weak := domain.NewRecord(domain.KindSemantic, "facts", "stale", "stale value", 0.2, domain.SourceExplicit)
	weak.CreatedAt = time.Now().AddDate(0, 0, -31)
	strong := domain.NewRecord(domain.KindSemantic, "facts", "keep", "keep value", 0.8, domain.SourceExplicit)
	strong.CreatedAt = time.Now().AddDate(0, 0, -31)

	if err := s.Store(ctx, weak); err != nil {
		t.Fatal(err)
	}
	if err := s.Store(ctx, strong); err != nil {
		t.Fatal(err)
	}

	s.Consolidate()

	if _, err := s.Get(weak.ID); err != ErrNotFound {
		t.Error("expected the weak, old semantic record to be pruned")
	}
	if _, err := s.Get(strong.ID); err != nil {
		t.Error("expected the strong record to survive consolidation")
	}
}

func TestConsolidateKeepsArchivedEpisodic(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	old := domain.NewRecord(domain.KindEpisodic, "events", "trip", "went to Tokyo", 0.5, domain.SourceExplicit)
	old.CreatedAt = time.Now().AddDate(0, 0, -91)
	if err := s.Store(ctx, old); err != nil {
		t.Fatal(err)
	}

	s.Consolidate()

	if _, err := s.Get(old.ID); err != nil {
		t.Error("expected archived episodic record to remain in the store (log-only archiving)")
	}
}

func TestConsolidateDropsTriggeredProspective(t *testing.T) {
	s := testStore(t)

	r, err := s.StoreProspective(context.Background(), "call mom", domain.Trigger{Kind: domain.TriggerKeyword, Arg: "mom"})
	if err != nil {
		t.Fatal(err)
	}

	triggered := s.CheckProspective(domain.ContextSnapshot{CurrentQuery: strPtr("remind me to call mom tonight")})
	if len(triggered) != 1 {
		t.Fatalf("expected 1 triggered record, got %d", len(triggered))
	}

	s.Consolidate()

	if _, err := s.Get(r.ID); err != ErrNotFound {
		t.Error("expected triggered prospective record to be dropped on consolidate")
	}
}

func strPtr(s string) *string { return &s }
