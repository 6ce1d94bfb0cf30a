package graph

import (
	"testing"

	"github.com/axiom-mind/memengine/internal/domain"
)

func TestHybridSearchRanksNameMatchHighest(t *testing.T) {
	g := testGraph(t)
	g.AddEntity(domain.NewEntity(domain.EntityProject, "Apollo Launch", nil))
	g.AddEntity(domain.NewEntity(domain.EntityTopic, "unrelated topic", map[string]string{"note": "mentions apollo in passing"}))

	hits := g.HybridSearch("apollo", 10)
	if len(hits) == 0 {
		t.Fatal("expected at least one hit")
	}
	if hits[0].Entity.Name != "Apollo Launch" {
		t.Errorf("expected the name match to rank first, got %q", hits[0].Entity.Name)
	}
}

func TestQueryFindsConnectionBetweenTwoMatches(t *testing.T) {
	g := testGraph(t)
	alice := domain.NewEntity(domain.EntityPerson, "Alice", nil)
	bob := domain.NewEntity(domain.EntityPerson, "Bob", nil)
	g.AddEntity(alice)
	g.AddEntity(bob)
	if err := g.AddRelationship(alice.ID, bob.ID, "knows", 1.0); err != nil {
		t.Fatal(err)
	}

	res := g.Query("Alice and Bob had lunch")
	if len(res.Matches) != 2 {
		t.Fatalf("expected 2 matched entities, got %d", len(res.Matches))
	}
	if len(res.Connection) == 0 {
		t.Error("expected a direct connection between Alice and Bob")
	}
}

func TestQuerySingleMatchHasNoConnection(t *testing.T) {
	g := testGraph(t)
	g.AddEntity(domain.NewEntity(domain.EntityPerson, "Alice", nil))

	res := g.Query("just Alice here")
	if len(res.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(res.Matches))
	}
	if res.Connection != nil {
		t.Error("expected no connection attempt with fewer than 2 matches")
	}
}
