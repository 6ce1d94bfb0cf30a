package shortterm

import (
	"fmt"
	"testing"

	"github.com/axiom-mind/memengine/internal/domain"
)

func TestAddTrimsOverCapacity(t *testing.T) {
	b := New(3)
	for i := 0; i < 5; i++ {
		b.Add(fmt.Sprintf("entry %d", i), domain.ShortTermContextual, 0.5, nil)
	}
	snap := b.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected buffer trimmed to capacity 3, got %d", len(snap))
	}
	if snap[0].Content != "entry 2" {
		t.Errorf("expected oldest surviving entry to be 'entry 2', got %q", snap[0].Content)
	}
}

func TestSearchByOverlapMatchesSharedToken(t *testing.T) {
	b := New(10)
	b.Add("user prefers dark mode", domain.ShortTermPreference, 0.6, nil)
	b.Add("discussing lunch plans", domain.ShortTermContextual, 0.2, nil)

	out := b.SearchByOverlap("what about dark themes")
	if len(out) != 1 || out[0].Content != "user prefers dark mode" {
		t.Fatalf("expected the dark-mode entry to match, got %d results", len(out))
	}
}

func TestSearchByOverlapIgnoresShortTokens(t *testing.T) {
	b := New(10)
	b.Add("a an is of to", domain.ShortTermContextual, 0.1, nil)

	out := b.SearchByOverlap("is of")
	if len(out) != 0 {
		t.Errorf("expected no matches since all tokens are length <= 2, got %d", len(out))
	}
}
