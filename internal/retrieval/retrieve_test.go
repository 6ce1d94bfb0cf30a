package retrieval

import (
	"strings"
	"testing"

	"github.com/axiom-mind/memengine/internal/domain"
)

// TestDedupDropsSharedPrefix checks that sources whose lowercased
// first-100-char content prefix coincides are deduplicated, preserving the
// first occurrence's position.
func TestDedupDropsSharedPrefix(t *testing.T) {
	sources := []domain.RetrievalSource{
		{ID: "a", Content: "The user prefers dark mode for the editor theme"},
		{ID: "b", Content: "THE USER PREFERS DARK MODE FOR THE EDITOR THEME"},
		{ID: "c", Content: "unrelated content entirely"},
	}
	out := dedup(sources)
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving sources after dedup, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "c" {
		t.Errorf("expected insertion order preserved, got %+v", out)
	}
}

func TestDedupEmptyInput(t *testing.T) {
	if out := dedup(nil); out != nil {
		t.Errorf("expected nil for empty input, got %+v", out)
	}
}

func TestSortByRelevanceDescending(t *testing.T) {
	sources := []domain.RetrievalSource{
		{ID: "low", RelevanceScore: 0.2},
		{ID: "high", RelevanceScore: 0.9},
		{ID: "mid", RelevanceScore: 0.5},
	}
	out := sortByRelevance(sources)
	if out[0].ID != "high" || out[1].ID != "mid" || out[2].ID != "low" {
		t.Errorf("expected descending relevance order, got %+v", out)
	}
}

func TestBuildContextBlockGroupsByTierLexicographically(t *testing.T) {
	sources := []domain.RetrievalSource{
		{Tier: domain.TierSemantic, Content: "semantic fact"},
		{Tier: domain.TierEpisodic, Content: "episodic fact"},
	}
	block := buildContextBlock(sources)

	episodicIdx := strings.Index(block, "Episodic Memory")
	semanticIdx := strings.Index(block, "Semantic Memory")
	if episodicIdx == -1 || semanticIdx == -1 {
		t.Fatalf("expected both group headers present, got %q", block)
	}
	if episodicIdx > semanticIdx {
		t.Errorf("expected lexicographic group order (Episodic before Semantic), got %q", block)
	}
	if !strings.Contains(block, "• episodic fact") {
		t.Errorf("expected bullet-rendered content, got %q", block)
	}
}

func TestBuildContextBlockEmptyWhenNoSources(t *testing.T) {
	if block := buildContextBlock(nil); block != "" {
		t.Errorf("expected empty context block for zero sources, got %q", block)
	}
}
