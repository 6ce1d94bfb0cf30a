package graph

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/axiom-mind/memengine/internal/domain"
)

// PathEdge is one hop of a findConnection result.
type PathEdge struct {
	From string
	To   string
	Edge *domain.Edge
}

// FindConnection runs BFS over the undirected projection of edges from src
// to dst, maximum depth 4, returning the first edge-path found.
func (g *Graph) FindConnection(src, dst string) ([]PathEdge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if src == dst {
		return nil, true
	}

	type frame struct {
		id    string
		path  []PathEdge
		depth int
	}

	visited := map[string]bool{src: true}
	queue := []frame{{id: src, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= 4 {
			continue
		}
		for _, nb := range g.adjacency[cur.id] {
			if visited[nb] {
				continue
			}
			edge := g.edgeBetweenLocked(cur.id, nb)
			step := append(append([]PathEdge{}, cur.path...), PathEdge{From: cur.id, To: nb, Edge: edge})
			if nb == dst {
				return step, true
			}
			visited[nb] = true
			queue = append(queue, frame{id: nb, path: step, depth: cur.depth + 1})
		}
	}
	return nil, false
}

func (g *Graph) edgeBetweenLocked(a, b string) *domain.Edge {
	for _, e := range g.edges {
		if (e.SourceID == a && e.TargetID == b) || (e.SourceID == b && e.TargetID == a) {
			return e
		}
	}
	return nil
}

// SearchHit is a ranked hybridSearch/query result.
type SearchHit struct {
	Entity    *domain.Entity
	Score     float64
	MatchType string // "name" | "attribute"
}

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

// HybridSearch combines a BM25-like text match over entity names/attributes
// with a recency/connectivity boost (weights 0.5 name-match / 0.3
// attribute-match / 0.2 connectivity+recency) to produce a ranked list.
// Entities with no name or attribute match are left out.
func (g *Graph) HybridSearch(query string, limit int) []SearchHit {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	g.mu.RLock()
	entities := make([]*domain.Entity, 0, len(g.byID))
	for _, e := range g.byID {
		entities = append(entities, e)
	}
	avgLen := averageNameLength(entities)
	now := time.Now()

	var hits []SearchHit
	for _, e := range entities {
		nameScore := bm25Score(tokenize(e.Name), tokens, avgLen, len(entities))
		attrScore := 0.0
		matchType := "name"
		for _, v := range e.Attributes {
			s := bm25Score(tokenize(v), tokens, avgLen, len(entities))
			if s > attrScore {
				attrScore = s
				matchType = "attribute"
			}
		}
		if nameScore == 0 && attrScore == 0 {
			continue
		}

		daysSince := now.Sub(e.LastUpdatedAt).Hours() / 24.0
		recency := math.Exp(-daysSince / 30.0)
		connectivity := math.Min(1, float64(len(g.adjacency[e.ID]))/10.0)
		connBoost := 0.5*recency + 0.5*connectivity

		score := 0.5*nameScore + 0.3*attrScore + 0.2*connBoost
		if score <= 0 {
			continue
		}
		if nameScore == 0 {
			matchType = "attribute"
		} else if attrScore == 0 {
			matchType = "name"
		}
		hits = append(hits, SearchHit{Entity: e, Score: score, MatchType: matchType})
	}
	g.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func averageNameLength(entities []*domain.Entity) float64 {
	if len(entities) == 0 {
		return 1
	}
	total := 0
	for _, e := range entities {
		total += len(tokenize(e.Name))
	}
	avg := float64(total) / float64(len(entities))
	if avg == 0 {
		return 1
	}
	return avg
}

func bm25Score(docTokens []string, queryTokens []string, avgDocLen float64, corpusSize int) float64 {
	if len(docTokens) == 0 {
		return 0
	}
	freq := make(map[string]int)
	for _, t := range docTokens {
		freq[t]++
	}
	docLen := float64(len(docTokens))

	var score float64
	for _, qt := range queryTokens {
		f := float64(freq[qt])
		if f == 0 {
			continue
		}
		idf := math.Log(1 + (float64(corpusSize)-f+0.5)/(f+0.5))
		score += idf * (f * (bm25K1 + 1)) / (f + bm25K1*(1-bm25B+bm25B*docLen/avgDocLen))
	}
	return score
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

// DecayStaleEntities removes entities with lastUpdatedAt older than days
// (default 90) AND referenceCount below minRef (default 2), dropping
// incident edges.
func (g *Graph) DecayStaleEntities(days int, minRef int) int {
	if days <= 0 {
		days = 90
	}
	if minRef <= 0 {
		minRef = 2
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	g.mu.Lock()
	var stale []string
	for id, e := range g.byID {
		if e.LastUpdatedAt.Before(cutoff) && e.ReferenceCount < minRef {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		delete(g.byID, id)
	}
	if len(stale) > 0 {
		staleSet := make(map[string]bool, len(stale))
		for _, id := range stale {
			staleSet[id] = true
		}
		kept := g.edges[:0]
		for _, e := range g.edges {
			if !staleSet[e.SourceID] && !staleSet[e.TargetID] {
				kept = append(kept, e)
			}
		}
		g.edges = kept
		g.rebuildAdjacencyLocked()
		g.dirty = true
	}
	g.mu.Unlock()

	g.persistIfDirty()
	return len(stale)
}

// QueryResult is the result of Query: matched entities, their induced edges,
// and a found connection when >= 2 entities matched.
type QueryResult struct {
	Matches    []*domain.Entity
	Edges      []*domain.Edge
	Connection []PathEdge
}

// Query matches entities mentioned in text by name substring; if >= 2
// matched, attempts findConnection between the first two, otherwise returns
// matches and their incident edges.
func (g *Graph) Query(text string) QueryResult {
	lc := strings.ToLower(text)

	g.mu.RLock()
	var matches []*domain.Entity
	for _, e := range g.byID {
		if strings.Contains(lc, strings.ToLower(e.Name)) {
			matches = append(matches, e)
		}
	}
	var edges []*domain.Edge
	ids := make(map[string]bool)
	for _, e := range matches {
		ids[e.ID] = true
	}
	for _, e := range g.edges {
		if ids[e.SourceID] || ids[e.TargetID] {
			edges = append(edges, e)
		}
	}
	g.mu.RUnlock()

	result := QueryResult{Matches: matches, Edges: edges}
	if len(matches) >= 2 {
		if path, ok := g.FindConnection(matches[0].ID, matches[1].ID); ok {
			result.Connection = path
		}
	}
	return result
}
