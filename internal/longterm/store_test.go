package longterm

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	cfg := config.LongTermConfig{
		BaseDecayRate:       0.1,
		MinimumStrength:     0.1,
		ReinforcementFactor: 0.2,
		MaxReinforcement:    0.5,
		DecayInterval:       time.Hour,
		AutoPruneEnabled:    true,
		DataDir:             dir,
	}
	s, err := New(cfg, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestStoreFactThenReinforceMergesDuplicate(t *testing.T) {
	s := testStore(t)

	f1, err := s.StoreFact("likes espresso", "preference", 0.5, []string{"coffee"}, domain.SourceExplicit)
	if err != nil {
		t.Fatal(err)
	}
	f2, err := s.StoreFact("Likes Espresso", "preference", 0.5, []string{"coffee"}, domain.SourceInferred)
	if err != nil {
		t.Fatal(err)
	}
	if f1.ID != f2.ID {
		t.Error("expected case-insensitive duplicate content to merge into the same fact")
	}
	if f2.ReinforcementCount != 1 {
		t.Errorf("expected reinforcement count 1 after merge, got %d", f2.ReinforcementCount)
	}
}

// TestReinforceDiminishingReturns checks that successive reinforcement
// boosts shrink as strength approaches 1.
func TestReinforceDiminishingReturns(t *testing.T) {
	s := testStore(t)
	f, err := s.StoreFact("works remotely", "work", 0.2, []string{"remote"}, domain.SourceExplicit)
	if err != nil {
		t.Fatal(err)
	}

	var deltas []float64
	prev := f.Strength
	for i := 0; i < 4; i++ {
		if err := s.Reinforce(f.ID); err != nil {
			t.Fatal(err)
		}
		deltas = append(deltas, f.Strength-prev)
		prev = f.Strength
	}

	for i := 1; i < len(deltas); i++ {
		if deltas[i] > deltas[i-1] {
			t.Errorf("expected diminishing returns, delta[%d]=%f > delta[%d]=%f", i, deltas[i], i-1, deltas[i-1])
		}
	}
	if f.Strength > 1 {
		t.Errorf("strength exceeded 1: %f", f.Strength)
	}
}

// TestDecayAndPrune checks that an idle fact decays below minimumStrength
// and is pruned by the next decay sweep.
func TestDecayAndPrune(t *testing.T) {
	s := testStore(t)
	f, err := s.StoreFact("used vim in 2019", "history", 0.15, []string{"vim"}, domain.SourceInferred)
	if err != nil {
		t.Fatal(err)
	}
	f.CreatedAt = time.Now().AddDate(0, 0, -365)

	s.DecayUnusedFacts()

	if _, err := s.Get(f.ID); err != ErrNotFound {
		t.Error("expected long-idle low-strength fact to be pruned")
	}
}
