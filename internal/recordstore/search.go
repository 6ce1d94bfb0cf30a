package recordstore

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/embedding"
)

// Scored pairs a record with a similarity/relevance score.
type Scored struct {
	Record *domain.Record
	Score  float64
}

// SemanticSearch computes the query embedding and ranks all stored records
// by cosine similarity, returning the top limit.
func (s *Store) SemanticSearch(ctx context.Context, query string, limit int) ([]Scored, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	candidates := make([]*domain.Record, len(s.records))
	copy(candidates, s.records)
	s.mu.RUnlock()

	var scored []Scored
	for _, r := range candidates {
		if len(r.Embedding) == 0 {
			continue
		}
		sim := embedding.CosineSimilarity(queryVec, r.Embedding)
		scored = append(scored, Scored{Record: r, Score: sim})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

var tokenRe = regexp.MustCompile(`[a-z0-9]+`)

// tokenize lowercases and splits into alphanumeric tokens of length > 2.
func tokenize(s string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(s), -1)
	out := raw[:0]
	for _, t := range raw {
		if len(t) > 2 {
			out = append(out, t)
		}
	}
	return out
}

// KeywordSearch selects records whose "key value" contains any query token,
// sorted by importance descending.
func (s *Store) KeywordSearch(query string, limit int) []*domain.Record {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	now := time.Now()
	weights := DefaultImportanceWeights()

	s.mu.RLock()
	var matches []*domain.Record
	for _, r := range s.records {
		haystack := strings.ToLower(r.Key + " " + r.Value)
		for _, tok := range tokens {
			if strings.Contains(haystack, tok) {
				matches = append(matches, r)
				break
			}
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return Importance(matches[i], weights, now) > Importance(matches[j], weights, now)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
