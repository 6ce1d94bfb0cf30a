// Package augment implements C7, the augmenter: a thin orchestrator over C6
// that gates context injection on message position, task type, and
// confidence, and surfaces proactive suggestions.
package augment

import (
	"context"
	"sort"
	"strings"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/convo"
	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/recordstore"
	"github.com/axiom-mind/memengine/internal/retrieval"
)

// debugKeywords mark a prompt as a coding/debug task, gated at a lower
// confidence threshold.
var debugKeywords = []string{"error", "bug", "exception", "stack trace", "debug", "crash", "fails", "failing", "traceback"}

// Augmenter is C7.
type Augmenter struct {
	Retriever *retrieval.Retriever
	Records   *recordstore.Store
	Convo     *convo.Store
	Cfg       config.AugmentConfig
}

// Result is the augmenter's gated decision plus the retrieval it decided on.
type Result struct {
	Prompt             string
	HasInjectedContext bool
	InjectedSources    []domain.RetrievalSource
	Confidence         float64
}

// Augment applies the injection gate: inject when (messageIndex > 0 OR
// injectOnFirstMessage) AND (the prompt looks like a coding/debug task at
// threshold 0.3, OR confidence > minConfidenceToInject, default 0.4).
func (a *Augmenter) Augment(ctx context.Context, prompt string, messageIndex int, projectID *string) (Result, error) {
	enhanced, err := a.Retriever.EnhancePrompt(ctx, prompt, projectID)
	if err != nil {
		return Result{}, err
	}

	positionOK := messageIndex > 0 || a.Cfg.InjectOnFirstMessage
	threshold := a.Cfg.DebugTaskThreshold
	if threshold <= 0 {
		threshold = 0.3
	}
	minConfidence := a.Retriever.Cfg.MinConfidenceToInject
	if minConfidence <= 0 {
		minConfidence = 0.4
	}

	confidenceOK := (isDebugTask(prompt) && enhanced.Confidence > threshold) || enhanced.Confidence > minConfidence

	if !positionOK || !confidenceOK || !enhanced.HasInjectedContext {
		return Result{Prompt: prompt, Confidence: enhanced.Confidence}, nil
	}

	return Result{
		Prompt:             enhanced.Prompt,
		HasInjectedContext: true,
		InjectedSources:    enhanced.InjectedSources,
		Confidence:         enhanced.Confidence,
	}, nil
}

func isDebugTask(prompt string) bool {
	lc := strings.ToLower(prompt)
	for _, kw := range debugKeywords {
		if strings.Contains(lc, kw) {
			return true
		}
	}
	return false
}

// Suggestion is a proactive recommendation surfaced alongside a conversation.
type Suggestion struct {
	Content    string
	Confidence float64
	Kind       string // "procedural" | "fact"
}

// Suggestions returns up to 3 procedural suggestions (C1 procedural with
// successRate > 0.7) plus up to 2 conversation facts (confidence > 0.8),
// sorted by confidence descending.
func (a *Augmenter) Suggestions(conversationID string, recentMessages []string, projectID *string) []Suggestion {
	var out []Suggestion

	if a.Records != nil {
		procedural := a.Records.Retrieve(domain.KindProcedural, "", nil, nil, 0)
		var candidates []Suggestion
		for _, rec := range procedural {
			if rec.Metadata == nil || rec.Metadata.Procedural == nil {
				continue
			}
			if rec.Metadata.Procedural.SuccessRate > 0.7 {
				candidates = append(candidates, Suggestion{Content: rec.Value, Confidence: rec.Metadata.Procedural.SuccessRate, Kind: "procedural"})
			}
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Confidence > candidates[j].Confidence })
		if len(candidates) > 3 {
			candidates = candidates[:3]
		}
		out = append(out, candidates...)
	}

	if a.Convo != nil {
		res := a.Convo.RetrieveContext(strings.Join(recentMessages, " "), projectID)
		var candidates []Suggestion
		for _, f := range res.Facts {
			if f.Confidence > 0.8 {
				candidates = append(candidates, Suggestion{Content: f.Text, Confidence: f.Confidence, Kind: "fact"})
			}
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Confidence > candidates[j].Confidence })
		if len(candidates) > 2 {
			candidates = candidates[:2]
		}
		out = append(out, candidates...)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}
