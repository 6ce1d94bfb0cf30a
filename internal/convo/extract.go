// Package convo implements C5, conversation memory: a fact catalogue,
// rolling conversation summaries and a user-preference map, built from a
// regex extraction bank with LLM-assisted summarization and a deterministic
// fallback.
package convo

import (
	"regexp"
	"strings"

	"github.com/axiom-mind/memengine/internal/domain"
)

type extractionPattern struct {
	re       *regexp.Regexp
	category domain.FactCategory
}

// patternBank is compiled once at package init, matching user messages for
// name, preference, tech stack, project name, location/workplace, goals,
// topics, and people.
var patternBank = []extractionPattern{
	{regexp.MustCompile(`(?i)\bmy name is ([A-Z][a-zA-Z'-]+(?: [A-Z][a-zA-Z'-]+)?)`), domain.FactUserInfo},
	{regexp.MustCompile(`(?i)\bi'?m called ([A-Z][a-zA-Z'-]+)`), domain.FactUserInfo},
	{regexp.MustCompile(`(?i)\bi (?:prefer|like|love|enjoy) ([a-zA-Z0-9 '-]{3,60})`), domain.FactUserPreference},
	{regexp.MustCompile(`(?i)\bi (?:dislike|hate|don't like) ([a-zA-Z0-9 '-]{3,60})`), domain.FactUserPreference},
	{regexp.MustCompile(`(?i)\bi (?:use|work with|write|code in) (Go|Rust|Python|TypeScript|JavaScript|Java|C\+\+|C#|Ruby|Kotlin|Swift)\b`), domain.FactTechnicalContext},
	{regexp.MustCompile(`(?i)\bmy project(?: is called| is named)? ([a-zA-Z0-9 _-]{2,60})`), domain.FactProjectDetails},
	{regexp.MustCompile(`(?i)\bi work at ([a-zA-Z0-9 &'-]{2,60})`), domain.FactUserInfo},
	{regexp.MustCompile(`(?i)\bi live in ([a-zA-Z,'-]{2,60})`), domain.FactUserInfo},
	{regexp.MustCompile(`(?i)\bmy goal is (?:to )?([a-zA-Z0-9 '-]{3,80})`), domain.FactDomainKnowledge},
	{regexp.MustCompile(`(?i)\bi'?m (?:trying|planning|working) to ([a-zA-Z0-9 '-]{3,80})`), domain.FactDomainKnowledge},
	{regexp.MustCompile(`(?i)\btalking (?:about|with) ([a-zA-Z][a-zA-Z '-]{1,40})`), domain.FactDomainKnowledge},
}

// ExtractFacts scans a user message against the pattern bank and returns a
// Fact per match, tagged with the pattern's category.
func ExtractFacts(message string, source domain.Source) []*domain.Fact {
	var out []*domain.Fact
	for _, p := range patternBank {
		m := p.re.FindStringSubmatch(message)
		if m == nil || len(m) < 2 {
			continue
		}
		text := strings.TrimSpace(m[1])
		if text == "" {
			continue
		}
		out = append(out, &domain.Fact{
			Category:   p.category,
			Text:       text,
			Source:     source,
			Confidence: 0.7,
		})
	}
	return out
}
