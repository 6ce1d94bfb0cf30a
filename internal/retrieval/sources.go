// Package retrieval implements C6, the active retriever: a parallel fan-out
// across C1-C5 sources, per-source weighting, optional LLM reranking,
// deduplication, and a grouped context block.
package retrieval

import (
	"context"
	"time"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/convo"
	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/eventbus"
	"github.com/axiom-mind/memengine/internal/graph"
	"github.com/axiom-mind/memengine/internal/llm"
	"github.com/axiom-mind/memengine/internal/recordstore"
	"github.com/axiom-mind/memengine/internal/shortterm"
)

// sourceResult is one fan-out branch's contribution.
type sourceResult struct {
	name       string
	sources    []domain.RetrievalSource
	confidence float64
}

// Retriever is C6: the active retriever, orchestrating C1-C5.
type Retriever struct {
	Records   *recordstore.Store
	ShortTerm *shortterm.Buffer
	Convo     *convo.Store
	Graph     *graph.Graph
	Bus       eventbus.Port
	LLM       llm.Port
	Cfg       config.RetrievalConfig
}

func (r *Retriever) retrieveMemorySystem(ctx context.Context, query string) sourceResult {
	var out []domain.RetrievalSource
	var confSum float64
	var confN int

	if r.Records != nil {
		scored, err := r.Records.SemanticSearch(ctx, query, r.Cfg.MaxSemanticResults)
		if err == nil {
			for _, sc := range scored {
				if sc.Score < r.Cfg.MinSimilarityThreshold {
					continue
				}
				out = append(out, domain.RetrievalSource{
					ID: sc.Record.ID.String(), Tier: domain.TierSemantic, Content: sc.Record.Value,
					RelevanceScore: sc.Score, Origin: "memorySystem", Timestamp: sc.Record.CreatedAt,
				})
				confSum += sc.Score
				confN++
			}
		}

		episodic := r.Records.Retrieve(domain.KindEpisodic, "", nil, nil, r.Cfg.MaxEpisodicResults)
		for _, rec := range episodic {
			out = append(out, domain.RetrievalSource{
				ID: rec.ID.String(), Tier: domain.TierEpisodic, Content: rec.Value,
				RelevanceScore: rec.Confidence, Origin: "memorySystem", Timestamp: rec.CreatedAt,
			})
			confSum += rec.Confidence
			confN++
		}

		procedural := r.Records.Retrieve(domain.KindProcedural, "", nil, nil, r.Cfg.MaxProceduralResults)
		for _, rec := range procedural {
			out = append(out, domain.RetrievalSource{
				ID: rec.ID.String(), Tier: domain.TierProcedural, Content: rec.Value,
				RelevanceScore: rec.Confidence, Origin: "memorySystem", Timestamp: rec.CreatedAt,
			})
			confSum += rec.Confidence
			confN++
		}
	}

	if r.ShortTerm != nil {
		for _, e := range r.ShortTerm.SearchByOverlap(query) {
			out = append(out, domain.RetrievalSource{
				ID: e.ID.String(), Tier: domain.TierWorking, Content: e.Content,
				RelevanceScore: e.Importance, Origin: "memorySystem", Timestamp: e.CreatedAt,
			})
			confSum += e.Importance
			confN++
		}
	}

	if max := r.Cfg.MaxMemorySystemResults; max > 0 && len(out) > max {
		out = out[:max]
	}
	return sourceResult{name: "memorySystem", sources: out, confidence: avg(confSum, confN)}
}

func (r *Retriever) retrieveConversation(query string, projectID *string) sourceResult {
	if r.Convo == nil {
		return sourceResult{name: "conversation"}
	}
	res := r.Convo.RetrieveContext(query, projectID)

	var out []domain.RetrievalSource
	var confSum float64
	var confN int

	for _, f := range res.Facts {
		out = append(out, domain.RetrievalSource{
			ID: f.ID.String(), Tier: domain.TierLongTerm, Content: f.Text,
			RelevanceScore: f.Confidence, Origin: "conversation", Timestamp: f.Timestamp,
		})
		confSum += f.Confidence
		confN++
	}
	for _, sum := range res.Summaries {
		out = append(out, domain.RetrievalSource{
			ID: sum.ID.String(), Tier: domain.TierEpisodic, Content: sum.Text,
			RelevanceScore: sum.Importance, Origin: "conversation", Timestamp: sum.Timestamp,
		})
		confSum += sum.Importance
		confN++
	}
	for k, v := range res.Preferences {
		out = append(out, domain.RetrievalSource{
			ID: k, Tier: domain.TierSemantic, Content: k + ": " + v,
			RelevanceScore: 0.9, Origin: "conversation", Timestamp: time.Now(),
		})
		confSum += 0.9
		confN++
	}

	return sourceResult{name: "conversation", sources: out, confidence: avg(confSum, confN)}
}

func (r *Retriever) retrieveKnowledgeGraph(query string) sourceResult {
	if r.Graph == nil {
		return sourceResult{name: "knowledgeGraph"}
	}
	hits := r.Graph.HybridSearch(query, r.Cfg.MaxKnowledgeGraphResults)

	var out []domain.RetrievalSource
	var confSum float64
	var confN int
	for _, h := range hits {
		out = append(out, domain.RetrievalSource{
			ID: h.Entity.ID, Tier: domain.TierSemantic, Content: h.Entity.Name,
			RelevanceScore: h.Score, Origin: "knowledgeGraph", Timestamp: h.Entity.LastUpdatedAt,
		})
		confSum += h.Score
		confN++
	}

	if len(out) == 0 {
		// Fallback: union of entities the query has token overlap with and
		// entities that are frequently referenced, deduped by ID.
		seen := make(map[string]bool)
		add := func(e *domain.Entity) {
			if seen[e.ID] {
				return
			}
			seen[e.ID] = true
			out = append(out, domain.RetrievalSource{
				ID: e.ID, Tier: domain.TierSemantic, Content: e.Name,
				RelevanceScore: 0.5, Origin: "knowledgeGraph", Timestamp: e.LastUpdatedAt,
			})
			confSum += 0.5
			confN++
		}

		res := r.Graph.Query(query)
		for _, e := range res.Matches {
			add(e)
		}
		for _, e := range r.Graph.HighReferenceEntities(3) {
			add(e)
		}
	}

	return sourceResult{name: "knowledgeGraph", sources: out, confidence: avg(confSum, confN)}
}

func (r *Retriever) retrieveEventHistory() sourceResult {
	if r.Bus == nil {
		return sourceResult{name: "eventHistory"}
	}

	var out []domain.RetrievalSource
	var confSum float64
	var confN int

	errs, err := r.Bus.RecentErrors("", time.Now().Add(-time.Hour), r.Cfg.MaxEventResults)
	if err == nil {
		for _, e := range errs {
			rel := 0.5
			if !e.Recoverable {
				rel = 0.8
			}
			out = append(out, domain.RetrievalSource{
				ID: e.ErrorType, Tier: domain.TierWorking, Content: e.Message,
				RelevanceScore: rel, Origin: "eventHistory", Timestamp: e.Timestamp,
			})
			confSum += rel
			confN++
		}
	}

	learning, err := r.Bus.RecentLearning("", time.Now().Add(-24*time.Hour), r.Cfg.MaxEventResults)
	if err == nil {
		for _, e := range learning {
			out = append(out, domain.RetrievalSource{
				ID: e.LearningType, Tier: domain.TierWorking, Content: e.LearningType,
				RelevanceScore: 0.4, Origin: "eventHistory", Timestamp: e.Timestamp,
			})
			confSum += 0.4
			confN++
		}
	}

	return sourceResult{name: "eventHistory", sources: out, confidence: avg(confSum, confN)}
}

func avg(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
