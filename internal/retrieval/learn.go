package retrieval

import (
	"context"
	"encoding/json"
	"time"

	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/eventbus"
	"github.com/axiom-mind/memengine/internal/llm"
)

// EnhancedPrompt is C6's enhancePrompt return value.
type EnhancedPrompt struct {
	Prompt             string
	HasInjectedContext bool
	InjectedSources    []domain.RetrievalSource
	Confidence         float64
}

// EnhancePrompt retrieves context for the prompt and prefixes it whenever
// the retrieved context block is non-empty. The injection
// decision itself is the Augmenter's (C7) responsibility; this returns the
// raw retrieval alongside the would-be-augmented prompt for C7 to gate.
func (r *Retriever) EnhancePrompt(ctx context.Context, prompt string, projectID *string) (EnhancedPrompt, error) {
	result, err := r.RetrieveContext(ctx, prompt, projectID)
	if err != nil {
		return EnhancedPrompt{}, err
	}

	if result.ContextPrompt == "" {
		return EnhancedPrompt{Prompt: prompt, Confidence: result.Confidence}, nil
	}

	augmented := "<context>\n" + result.ContextPrompt + "\n</context>\n\n" + prompt
	return EnhancedPrompt{
		Prompt:             augmented,
		HasInjectedContext: true,
		InjectedSources:    result.Sources,
		Confidence:         result.Confidence,
	}, nil
}

type extractedFacts struct {
	Facts []struct {
		Category string `json:"category"`
		Content  string `json:"content"`
	} `json:"facts"`
	Importance float64 `json:"importance"`
}

var categoryMap = map[string]domain.FactCategory{
	"preference": domain.FactUserPreference,
	"info":       domain.FactUserInfo,
	"technical":  domain.FactTechnicalContext,
	"project":    domain.FactProjectDetails,
}

func mapLearningCategory(raw string) domain.FactCategory {
	if c, ok := categoryMap[raw]; ok {
		return c
	}
	return domain.FactDomainKnowledge
}

// LearnFromExchange calls the LLM port to extract facts and an importance
// score from an exchange, stores each fact in C5, optionally pushes the
// user message into C3 as a contextual entry, and emits a learning event.
func (r *Retriever) LearnFromExchange(ctx context.Context, userMessage, assistantResponse, conversationID string, wasHelpful *bool) error {
	if r.LLM == nil {
		return nil
	}

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	prompt := "Extract facts and importance (0-1) from this exchange as JSON {facts:[{category,content}], importance}:\nUser: " +
		userMessage + "\nAssistant: " + assistantResponse

	ch, err := r.LLM.Chat(cctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, "", false, 10*time.Second)
	if err != nil {
		return nil
	}
	text, err := llm.Collect(ch)
	if err != nil || text == "" {
		return nil
	}

	var extracted extractedFacts
	if err := json.Unmarshal([]byte(text), &extracted); err != nil {
		return nil
	}

	anyFact := len(extracted.Facts) > 0
	if r.Convo != nil {
		for _, f := range extracted.Facts {
			r.Convo.StoreFact(&domain.Fact{
				Category:   mapLearningCategory(f.Category),
				Text:       f.Content,
				Confidence: 0.7,
			})
		}
	}

	if (anyFact || extracted.Importance > 0.5) && r.ShortTerm != nil {
		r.ShortTerm.Add(userMessage, domain.ShortTermContextual, extracted.Importance, map[string]any{
			"conversationId": conversationID,
			"importance":     extracted.Importance,
		})
	}

	if r.Bus != nil {
		_ = r.Bus.EmitLearning(eventbus.LearningEvent{
			LearningType: "exchange",
			Data:         map[string]any{"conversationId": conversationID, "factCount": len(extracted.Facts)},
			Timestamp:    time.Now(),
		})
	}
	return nil
}
