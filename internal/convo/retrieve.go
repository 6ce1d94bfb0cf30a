package convo

import (
	"sort"
	"strings"
	"time"

	"github.com/axiom-mind/memengine/internal/domain"
)

// ContextResult is the output of RetrieveContext.
type ContextResult struct {
	Summaries   []*domain.Summary
	Facts       []*domain.Fact
	Preferences map[string]string
}

// RetrieveContext filters summaries by project (if given), tokenizes the
// query, and includes a summary when its keyTopics share a token with the
// query OR its importance > 0.7; facts are included when any token is a
// substring of the lowercased fact text (updating lastReferencedAt on a
// match). Returns the top maxRetrievedContext summaries by importance and
// the top 2*maxRetrievedContext facts by confidence, plus all preferences.
func (s *Store) RetrieveContext(query string, projectID *string) ContextResult {
	tokens := queryTokens(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	var summaries []*domain.Summary
	for _, sum := range s.summaries {
		if projectID != nil && (sum.ProjectID == nil || *sum.ProjectID != *projectID) {
			continue
		}
		if sum.Importance > 0.7 || topicsOverlap(sum.KeyTopics, tokens) {
			summaries = append(summaries, sum)
		}
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Importance > summaries[j].Importance })
	maxSummaries := s.cfg.MaxRetrievedContext
	if maxSummaries <= 0 {
		maxSummaries = 5
	}
	if len(summaries) > maxSummaries {
		summaries = summaries[:maxSummaries]
	}

	var facts []*domain.Fact
	now := time.Now()
	for _, f := range s.facts {
		lc := strings.ToLower(f.Text)
		for _, t := range tokens {
			if strings.Contains(lc, t) {
				facts = append(facts, f)
				f.LastReferencedAt = &now
				break
			}
		}
	}
	sort.Slice(facts, func(i, j int) bool { return facts[i].Confidence > facts[j].Confidence })
	maxFacts := 2 * maxSummaries
	if len(facts) > maxFacts {
		facts = facts[:maxFacts]
	}

	prefs := make(map[string]string, len(s.prefs))
	for k, v := range s.prefs {
		prefs[k] = v
	}

	return ContextResult{Summaries: summaries, Facts: facts, Preferences: prefs}
}

func queryTokens(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

func topicsOverlap(topics []string, tokens []string) bool {
	for _, topic := range topics {
		lc := strings.ToLower(topic)
		for _, t := range tokens {
			if lc == t {
				return true
			}
		}
	}
	return false
}
