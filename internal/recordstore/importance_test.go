package recordstore

import (
	"testing"
	"time"

	"github.com/axiom-mind/memengine/internal/domain"
)

func TestImportanceWithinRange(t *testing.T) {
	r := domain.NewRecord(domain.KindProspective, "tasks", "call mom", "call mom back", 0.9, domain.SourceExplicit)
	r.AccessCount = 5

	score := Importance(r, DefaultImportanceWeights(), time.Now())
	if score < 0 || score > 1 {
		t.Fatalf("importance out of [0,1]: %f", score)
	}
}

func TestImportanceFavorsRecentAndFrequent(t *testing.T) {
	now := time.Now()
	w := DefaultImportanceWeights()

	stale := domain.NewRecord(domain.KindSemantic, "facts", "x", "x", 0.5, domain.SourceExplicit)
	stale.LastAccessed = now.AddDate(0, 0, -60)

	fresh := domain.NewRecord(domain.KindSemantic, "facts", "y", "y", 0.5, domain.SourceExplicit)
	fresh.LastAccessed = now
	fresh.AccessCount = 20

	if Importance(fresh, w, now) <= Importance(stale, w, now) {
		t.Error("expected a recently-accessed, frequently-accessed record to score higher")
	}
}

func TestImportanceTypeBonusAppliesToProspective(t *testing.T) {
	now := time.Now()
	w := DefaultImportanceWeights()

	episodic := domain.NewRecord(domain.KindEpisodic, "events", "a", "a", 0.5, domain.SourceExplicit)
	prospective := domain.NewRecord(domain.KindProspective, "tasks", "a", "a", 0.5, domain.SourceExplicit)

	if Importance(prospective, w, now) <= Importance(episodic, w, now) {
		t.Error("expected prospective's +0.3 type bonus to outweigh episodic's +0.0")
	}
}
