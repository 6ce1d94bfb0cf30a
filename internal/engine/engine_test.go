package engine

import (
	"context"
	"testing"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.AppSupportDir = t.TempDir()
	cfg.Namespace = "test"
	e, err := New(cfg, Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestNewConstructsEveryComponent(t *testing.T) {
	e := testEngine(t)
	if e.Records == nil || e.LongTerm == nil || e.Graph == nil || e.Convo == nil || e.ShortTerm == nil {
		t.Fatal("expected every store to be constructed")
	}
	if e.Retriever == nil || e.Augmenter == nil {
		t.Fatal("expected the retriever and augmenter to be wired")
	}
}

func TestStatsReflectsStoredRecords(t *testing.T) {
	e := testEngine(t)
	before := e.Stats()
	if before.Records != 0 {
		t.Fatalf("expected an empty record store, got %d", before.Records)
	}

	rec := domain.NewRecord(domain.KindSemantic, "facts", "favorite color", "blue", 0.8, domain.SourceExplicit)
	if err := e.Records.Store(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	after := e.Stats()
	if after.Records != 1 {
		t.Fatalf("expected 1 record after Store, got %d", after.Records)
	}
}

func TestHealthReportCarriesNamespace(t *testing.T) {
	e := testEngine(t)
	h := e.HealthReport()
	if h.Namespace != "test" {
		t.Fatalf("expected namespace %q, got %q", "test", h.Namespace)
	}
	if h.Uptime == "" {
		t.Fatal("expected a non-empty uptime string")
	}
}

func TestEnhancePromptDelegatesToRetriever(t *testing.T) {
	e := testEngine(t)
	rec := domain.NewRecord(domain.KindSemantic, "facts", "project name", "the project is called Orbit", 0.9, domain.SourceExplicit)
	if err := e.Records.Store(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	result, err := e.EnhancePrompt(context.Background(), "tell me about Orbit", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Prompt == "" {
		t.Fatal("expected a non-empty enhanced prompt")
	}
}
