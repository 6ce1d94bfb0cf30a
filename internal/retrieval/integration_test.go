package retrieval

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/graph"
	"github.com/axiom-mind/memengine/internal/recordstore"
	"github.com/axiom-mind/memengine/internal/shortterm"
)

func TestRetrieveContextFansOutAcrossSources(t *testing.T) {
	dir := t.TempDir()
	rcfg := config.RecordStoreConfig{EnableSemanticSearch: true, EmbeddingDim: 384, MaxCacheSize: 100, DataDir: dir}
	records, err := recordstore.New(rcfg, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(records.Close)

	rec := domain.NewRecord(domain.KindSemantic, "facts", "favorite language", "the user loves Go", 0.9, domain.SourceExplicit)
	if err := records.Store(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	st := shortterm.New(50)
	st.Add("discussing Go generics", domain.ShortTermContextual, 0.6, nil)

	retriever := &Retriever{
		Records:   records,
		ShortTerm: st,
		Cfg: config.RetrievalConfig{
			EnableMemorySystemRetrieval: true,
			MemorySystemWeight:          1.0,
			MaxSemanticResults:          5,
			MaxEpisodicResults:          5,
			MaxProceduralResults:        5,
			MaxMemorySystemResults:      10,
			MaxTotalResults:             15,
			MinSimilarityThreshold:      -1, // accept everything for this deterministic-embedding test
		},
	}

	result, err := retriever.RetrieveContext(context.Background(), "Go", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Sources) == 0 {
		t.Fatal("expected at least one retrieved source")
	}
	if result.ContextPrompt == "" {
		t.Error("expected a non-empty context prompt")
	}
}

func TestRetrieveKnowledgeGraphFallbackUnionsOverlapAndHighReference(t *testing.T) {
	g, err := graph.New(config.GraphConfig{DataDir: t.TempDir()}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}

	// High referenceCount, not textually present in the query: reached only
	// through the referenceCount > 3 pass.
	highRef := domain.NewEntity(domain.EntityProject, "Orbit", nil)
	highRef.ReferenceCount = 5
	g.AddEntity(highRef)

	// Low referenceCount, textually present in the query: reached only
	// through the token-overlap pass. A 2-char name is below HybridSearch's
	// token-length floor, so it can never score there, forcing the fallback.
	textMatch := domain.NewEntity(domain.EntityTopic, "db", nil)
	textMatch.ReferenceCount = 1
	g.AddEntity(textMatch)

	retriever := &Retriever{
		Graph: g,
		Cfg:   config.RetrievalConfig{MaxKnowledgeGraphResults: 10},
	}

	res := retriever.retrieveKnowledgeGraph("tell me about db performance")

	ids := make(map[string]bool, len(res.sources))
	for _, s := range res.sources {
		ids[s.ID] = true
	}
	if !ids[highRef.ID] {
		t.Errorf("expected high-referenceCount entity %q to be surfaced via the referenceCount fallback", highRef.ID)
	}
	if !ids[textMatch.ID] {
		t.Errorf("expected textually-matched entity %q to be surfaced via the token-overlap fallback", textMatch.ID)
	}
	if len(res.sources) != 2 {
		t.Errorf("expected exactly 2 deduped fallback sources, got %d: %+v", len(res.sources), res.sources)
	}
}

func TestRetrieveContextZeroSourcesYieldsEmptyPrompt(t *testing.T) {
	retriever := &Retriever{Cfg: config.RetrievalConfig{}}
	result, err := retriever.RetrieveContext(context.Background(), "anything", nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.ContextPrompt != "" {
		t.Errorf("expected empty context prompt with no sources, got %q", result.ContextPrompt)
	}
}
