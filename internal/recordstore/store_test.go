package recordstore

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	cfg := config.RecordStoreConfig{
		EnableTimeDecay:               true,
		DecayHalfLifeDays:             30,
		MinimumConfidenceForRetention: 0.15,
		EnableSemanticSearch:          true,
		EmbeddingDim:                  384,
		MaxCacheSize:                  500,
		DataDir:                       dir,
	}
	s, err := New(cfg, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestStoreAndGet(t *testing.T) {
	s := testStore(t)
	r := domain.NewRecord(domain.KindSemantic, "facts", "favorite color", "blue", 0.8, domain.SourceExplicit)

	if err := s.Store(context.Background(), r); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != "blue" {
		t.Errorf("value mismatch: %s", got.Value)
	}
	if len(got.Embedding) == 0 {
		t.Error("expected an embedding to have been computed")
	}
}

func TestGetMissingReturnsErrNotFound(t *testing.T) {
	s := testStore(t)
	if _, err := s.Get(domain.NewRecord(domain.KindSemantic, "a", "b", "c", 1, domain.SourceExplicit).ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	s := testStore(t)
	r := domain.NewRecord(domain.KindEpisodic, "events", "meeting", "stand-up", 0.5, domain.SourceSystem)
	if err := s.Store(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(r.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(r.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := config.RecordStoreConfig{DataDir: dir, MaxCacheSize: 10}

	s1, err := New(cfg, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	r := domain.NewRecord(domain.KindProcedural, "skills", "deploy", "run the release script", 0.9, domain.SourceExplicit)
	if err := s1.Store(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	s1.Close()

	s2, err := New(cfg, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s2.Close)

	got, err := s2.Get(r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != r.Value {
		t.Errorf("round-trip mismatch: %s", got.Value)
	}
}

func TestRetrieveFiltersByKindAndWindow(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	old := domain.NewRecord(domain.KindSemantic, "facts", "old", "old value", 0.5, domain.SourceExplicit)
	old.CreatedAt = time.Now().AddDate(0, 0, -10)
	fresh := domain.NewRecord(domain.KindSemantic, "facts", "fresh", "fresh value", 0.5, domain.SourceExplicit)

	if err := s.Store(ctx, old); err != nil {
		t.Fatal(err)
	}
	if err := s.Store(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	start := time.Now().AddDate(0, 0, -1)
	out := s.Retrieve(domain.KindSemantic, "", &start, nil, 0)
	if len(out) != 1 || out[0].Key != "fresh" {
		t.Errorf("expected only the fresh record, got %d results", len(out))
	}
}
