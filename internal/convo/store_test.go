package convo

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	cfg := config.ConvoConfig{
		SummarizationThreshold: 3,
		MaxSummariesStored:     10,
		MaxRetrievedContext:    5,
		DataDir:                dir,
	}
	s, err := New(cfg, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestStoreFactSkipsCaseInsensitiveDuplicate(t *testing.T) {
	s := testStore(t)
	s.StoreFact(&domain.Fact{Category: domain.FactUserInfo, Text: "lives in Tokyo", Confidence: 0.8})
	s.StoreFact(&domain.Fact{Category: domain.FactUserInfo, Text: "Lives In Tokyo", Confidence: 0.8})

	if len(s.facts) != 1 {
		t.Errorf("expected duplicate to be skipped, got %d facts", len(s.facts))
	}
}

// TestSummarizationFallback checks that with no LLM port, the deterministic
// fallback fires on the threshold-th message.
func TestSummarizationFallback(t *testing.T) {
	s := testStore(t)
	s.StoreFact(&domain.Fact{Category: domain.FactUserInfo, Text: "likes tea", Confidence: 0.8})

	var last *domain.Summary
	for i := 0; i < 3; i++ {
		last = s.RecordMessage(context.Background(), nil, time.Second)
	}
	if last == nil {
		t.Fatal("expected a summary on the 3rd message (threshold=3)")
	}
	if last.Importance < 0.3 || last.Importance > 0.8 {
		t.Errorf("expected fallback importance clamped to [0.3,0.8], got %f", last.Importance)
	}
	if !strings.HasPrefix(last.Text, "Topics discussed: ") {
		t.Errorf("expected summary text to start with %q, got %q", "Topics discussed: ", last.Text)
	}
	if !strings.Contains(last.Text, "likes tea") {
		t.Errorf("expected summary text to mention the stored fact, got %q", last.Text)
	}
	if len(last.KeyTopics) != 1 || last.KeyTopics[0] != "likes tea" {
		t.Errorf("expected KeyTopics to carry the summarized facts, got %+v", last.KeyTopics)
	}
}

func TestRecordMessageNoSummaryBeforeThreshold(t *testing.T) {
	s := testStore(t)
	sum := s.RecordMessage(context.Background(), nil, time.Second)
	if sum != nil {
		t.Error("expected no summary before reaching the threshold")
	}
}

func TestUpsertProjectMemoryUpdatesExisting(t *testing.T) {
	s := testStore(t)
	s.UpsertProjectMemory("proj-1", "initial summary", []string{"a"})
	pm := s.UpsertProjectMemory("proj-1", "updated summary", []string{"a", "b"})

	if pm.Summary != "updated summary" || len(pm.Facts) != 2 {
		t.Errorf("expected project memory updated in place, got %+v", pm)
	}
	if len(s.projects) != 1 {
		t.Errorf("expected a single project memory entry, got %d", len(s.projects))
	}
}
