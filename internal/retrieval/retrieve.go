package retrieval

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/llm"
)

// ActiveRetrievalResult is C6's public retrieveContext return value.
type ActiveRetrievalResult struct {
	Sources       []domain.RetrievalSource
	ContextPrompt string
	Confidence    float64
	RetrievalTime time.Duration
}

// RetrieveContext runs the cross-source retrieval pipeline: parallel
// fan-out, weighted confidence, optional AI rerank, dedup, and
// context-block assembly.
func (r *Retriever) RetrieveContext(ctx context.Context, query string, projectID *string) (ActiveRetrievalResult, error) {
	start := time.Now()

	results := make(map[string]sourceResult)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	if r.Cfg.EnableMemorySystemRetrieval {
		g.Go(func() error {
			res := r.retrieveMemorySystem(gctx, query)
			mu.Lock()
			results["memorySystem"] = res
			mu.Unlock()
			return nil
		})
	}
	if r.Cfg.EnableConversationMemory {
		g.Go(func() error {
			res := r.retrieveConversation(query, projectID)
			mu.Lock()
			results["conversation"] = res
			mu.Unlock()
			return nil
		})
	}
	if r.Cfg.EnableKnowledgeGraph {
		g.Go(func() error {
			res := r.retrieveKnowledgeGraph(query)
			mu.Lock()
			results["knowledgeGraph"] = res
			mu.Unlock()
			return nil
		})
	}
	if r.Cfg.EnableEventHistory {
		g.Go(func() error {
			res := r.retrieveEventHistory()
			mu.Lock()
			results["eventHistory"] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // branches never return an error; ctx cancellation just yields partial results

	weights := map[string]float64{
		"memorySystem":   r.Cfg.MemorySystemWeight,
		"conversation":   r.Cfg.ConversationWeight,
		"knowledgeGraph": r.Cfg.KnowledgeGraphWeight,
		"eventHistory":   r.Cfg.EventHistoryWeight,
	}

	var allSources []domain.RetrievalSource
	var weightedSum, weightTotal float64
	for name, w := range weights {
		res, ok := results[name]
		if !ok {
			continue
		}
		allSources = append(allSources, res.sources...)
		weightedSum += w * res.confidence
		weightTotal += w
	}
	confidence := 0.0
	if weightTotal > 0 {
		confidence = weightedSum / weightTotal
	}

	ranked := r.rerank(ctx, allSources)
	deduped := dedup(ranked)

	max := r.Cfg.MaxTotalResults
	if max <= 0 {
		max = 15
	}
	if len(deduped) > max {
		deduped = deduped[:max]
	}

	return ActiveRetrievalResult{
		Sources:       deduped,
		ContextPrompt: buildContextBlock(deduped),
		Confidence:    confidence,
		RetrievalTime: time.Since(start),
	}, nil
}

// rerank applies an optional LLM-based rerank with position-decay scoring;
// on a disabled/unavailable provider or a parse/call failure it falls back
// to a raw relevance-score sort.
func (r *Retriever) rerank(ctx context.Context, sources []domain.RetrievalSource) []domain.RetrievalSource {
	if !r.Cfg.EnableAIRanking || r.LLM == nil || len(sources) == 0 {
		return sortByRelevance(sources)
	}

	order, ok := r.llmRerankOrder(ctx, sources)
	if !ok {
		return sortByRelevance(sources)
	}

	var ranked []domain.RetrievalSource
	used := make(map[int]bool)
	for pos, idx := range order {
		if idx < 0 || idx >= len(sources) || used[idx] {
			continue
		}
		used[idx] = true
		s := sources[idx]
		s.RelevanceScore *= 1 - 0.1*float64(pos)
		ranked = append(ranked, s)
	}
	for i, s := range sources {
		if !used[i] {
			ranked = append(ranked, s)
		}
	}
	return ranked
}

func (r *Retriever) llmRerankOrder(ctx context.Context, sources []domain.RetrievalSource) ([]int, bool) {
	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b strings.Builder
	b.WriteString("Rank the following sources by relevance, return a JSON array of indices:\n")
	for i, s := range sources {
		b.WriteString("[")
		b.WriteString(string(rune('0' + i%10)))
		b.WriteString("] ")
		b.WriteString(s.Content)
		b.WriteString("\n")
	}

	ch, err := r.LLM.Chat(cctx, []llm.Message{{Role: llm.RoleUser, Content: b.String()}}, "", false, 5*time.Second)
	if err != nil {
		return nil, false
	}
	text, err := llm.Collect(ch)
	if err != nil || text == "" {
		return nil, false
	}

	var order []int
	if err := json.Unmarshal([]byte(text), &order); err != nil {
		return nil, false
	}
	return order, true
}

func sortByRelevance(sources []domain.RetrievalSource) []domain.RetrievalSource {
	out := make([]domain.RetrievalSource, len(sources))
	copy(out, sources)
	sort.SliceStable(out, func(i, j int) bool { return out[i].RelevanceScore > out[j].RelevanceScore })
	return out
}

// dedup drops sources whose lowercased first-100-char content prefix has
// already been seen, preserving order.
func dedup(sources []domain.RetrievalSource) []domain.RetrievalSource {
	seen := make(map[string]bool)
	var out []domain.RetrievalSource
	for _, s := range sources {
		prefix := strings.ToLower(s.Content)
		if len(prefix) > 100 {
			prefix = prefix[:100]
		}
		if seen[prefix] {
			continue
		}
		seen[prefix] = true
		out = append(out, s)
	}
	return out
}

// buildContextBlock groups sources by tier.DisplayName in lexicographic
// order, rendering "• content" lines per group joined by blank lines, with
// a "**<tierName>:**" header per group.
func buildContextBlock(sources []domain.RetrievalSource) string {
	if len(sources) == 0 {
		return ""
	}

	grouped := make(map[string][]domain.RetrievalSource)
	for _, s := range sources {
		name := s.Tier.DisplayName()
		grouped[name] = append(grouped[name], s)
	}

	var names []string
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("**")
		b.WriteString(name)
		b.WriteString(":**\n")
		for j, s := range grouped[name] {
			if j > 0 {
				b.WriteString("\n")
			}
			b.WriteString("• ")
			b.WriteString(s.Content)
		}
	}
	return strings.TrimSpace(b.String())
}
