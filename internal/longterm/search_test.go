package longterm

import (
	"testing"

	"github.com/axiom-mind/memengine/internal/domain"
)

func TestSearchMatchesKeywordCaseInsensitive(t *testing.T) {
	s := testStore(t)
	if _, err := s.StoreFact("prefers dark mode", "preference", 0.6, []string{"UI", "DarkMode"}, domain.SourceExplicit); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StoreFact("uses a standing desk", "health", 0.4, []string{"ergonomics"}, domain.SourceExplicit); err != nil {
		t.Fatal(err)
	}

	out := s.Search([]string{"darkmode"}, 0.2, 10)
	if len(out) != 1 || out[0].Content != "prefers dark mode" {
		t.Fatalf("expected exactly the dark-mode fact, got %d results", len(out))
	}
}

func TestGetActiveMemoriesExcludesWeakFacts(t *testing.T) {
	s := testStore(t)
	if _, err := s.StoreFact("weak fact", "misc", 0.05, nil, domain.SourceInferred); err != nil {
		t.Fatal(err)
	}
	if _, err := s.StoreFact("strong fact", "misc", 0.9, nil, domain.SourceExplicit); err != nil {
		t.Fatal(err)
	}

	active := s.GetActiveMemories(0.3, "", 0)
	for _, f := range active {
		if f.Content == "weak fact" {
			t.Error("expected weak fact below minimumStrength to be excluded")
		}
	}
}
