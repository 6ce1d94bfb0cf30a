package convo

import (
	"testing"

	"github.com/axiom-mind/memengine/internal/domain"
)

func TestRetrieveContextMatchesFactSubstring(t *testing.T) {
	s := testStore(t)
	s.StoreFact(&domain.Fact{Category: domain.FactUserPreference, Text: "prefers dark roast coffee", Confidence: 0.8})
	s.StoreFact(&domain.Fact{Category: domain.FactUserInfo, Text: "lives in Tokyo", Confidence: 0.6})

	res := s.RetrieveContext("tell me about coffee", nil)
	if len(res.Facts) != 1 || res.Facts[0].Text != "prefers dark roast coffee" {
		t.Fatalf("expected only the coffee fact to match, got %d", len(res.Facts))
	}
}

func TestRetrieveContextIncludesHighImportanceSummaryRegardlessOfTopic(t *testing.T) {
	s := testStore(t)
	s.mu.Lock()
	s.summaries = append(s.summaries, &domain.Summary{Text: "a major summary", Importance: 0.9})
	s.mu.Unlock()

	res := s.RetrieveContext("completely unrelated query", nil)
	if len(res.Summaries) != 1 {
		t.Errorf("expected the high-importance summary to be included regardless of topic overlap, got %d", len(res.Summaries))
	}
}

func TestRetrieveContextReturnsAllPreferences(t *testing.T) {
	s := testStore(t)
	s.SetPreference("theme", "dark")
	s.SetPreference("editor", "vim")

	res := s.RetrieveContext("anything", nil)
	if len(res.Preferences) != 2 {
		t.Errorf("expected all preferences returned, got %d", len(res.Preferences))
	}
}
