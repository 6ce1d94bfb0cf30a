package domain

import "testing"

func TestNewLongTermFactClampsStrength(t *testing.T) {
	f := NewLongTermFact("likes tea", "preference", 1.5, []string{"tea"}, SourceExplicit)
	if f.Strength != 1 {
		t.Errorf("expected strength clamped to 1, got %f", f.Strength)
	}
}
