// memengine-mcp exposes the personal memory engine as an MCP stdio server.
//
// Environment variables:
//
//	MEMENGINE_CONFIG       — path to a YAML config overlay (optional)
//	MEMENGINE_DATA_DIR     — app-support root directory (default: ./data)
//	MEMENGINE_NAMESPACE    — per-user/per-assistant namespace (default: default)
//
// Usage:
//
//	go install github.com/axiom-mind/memengine/cmd/memengine-mcp
//	memengine-mcp
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/engine"
)

func main() {
	cfg, err := config.Load(os.Getenv("MEMENGINE_CONFIG"))
	if err != nil {
		log.Fatalf("memengine config: %v", err)
	}
	if dir := os.Getenv("MEMENGINE_DATA_DIR"); dir != "" {
		cfg.AppSupportDir = dir
	}
	if ns := os.Getenv("MEMENGINE_NAMESPACE"); ns != "" {
		cfg.Namespace = ns
	}

	e, err := engine.New(cfg, engine.Options{})
	if err != nil {
		log.Fatalf("memengine init: %v", err)
	}
	defer e.Close()

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "memengine-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remember",
		Description: "Store a record in the record store (C1): a semantic fact, episodic event, procedural skill, or prospective intention.",
	}, rememberHandler(e))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "recall",
		Description: "Run the full cross-tier active retriever (C6): fans out across the record store and short-term buffer, conversation memory, knowledge graph, and event history, then returns a deduplicated, confidence-ranked context block.",
	}, recallHandler(e))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "augment_prompt",
		Description: "Apply the injection gate (C7) to a prompt: decides whether retrieved context should be injected given message position and task type, and returns the gated result.",
	}, augmentHandler(e))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggestions",
		Description: "Surface proactive suggestions (C7): high-success-rate procedural records and high-confidence conversation facts relevant to recent messages.",
	}, suggestionsHandler(e))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "health",
		Description: "Report how many records each memory tier currently holds, plus engine uptime.",
	}, healthHandler(e))

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("memengine-mcp: %v", err)
	}
}

// --- Input types ---

type rememberInput struct {
	Kind       string  `json:"kind"                 jsonschema:"Record kind: semantic, episodic, procedural, or prospective"`
	Category   string  `json:"category"             jsonschema:"Free-form category label"`
	Key        string  `json:"key"                  jsonschema:"Short key identifying what this record is about"`
	Value      string  `json:"value"                jsonschema:"The record's content"`
	Confidence float64 `json:"confidence,omitempty" jsonschema:"Confidence 0.0-1.0 (default 0.5)"`
	Explicit   bool    `json:"explicit,omitempty"   jsonschema:"True if the user stated this directly rather than it being inferred"`
}

type recallInput struct {
	Query     string `json:"query"                jsonschema:"What to retrieve context for"`
	ProjectID string `json:"project_id,omitempty" jsonschema:"Optional project scope"`
}

type augmentInput struct {
	Prompt       string `json:"prompt"                 jsonschema:"The user's current prompt"`
	MessageIndex int    `json:"message_index"          jsonschema:"0-based position of this message in the conversation"`
	ProjectID    string `json:"project_id,omitempty"   jsonschema:"Optional project scope"`
}

type suggestionsInput struct {
	ConversationID string   `json:"conversation_id"         jsonschema:"Conversation identifier"`
	RecentMessages []string `json:"recent_messages,omitempty" jsonschema:"Recent message texts to ground suggestions on"`
	ProjectID      string   `json:"project_id,omitempty"    jsonschema:"Optional project scope"`
}

type healthInput struct{}

// --- Handlers ---

func rememberHandler(e *engine.Engine) func(context.Context, *mcp.CallToolRequest, rememberInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input rememberInput) (*mcp.CallToolResult, any, error) {
		if !domain.ValidRecordKind(input.Kind) {
			return textResult(fmt.Sprintf(`{"error": "invalid kind %q"}`, input.Kind)), nil, nil
		}
		confidence := input.Confidence
		if confidence == 0 {
			confidence = 0.5
		}
		source := domain.SourceInferred
		if input.Explicit {
			source = domain.SourceExplicit
		}

		rec := domain.NewRecord(domain.RecordKind(input.Kind), input.Category, input.Key, input.Value, confidence, source)
		if err := e.Records.Store(ctx, rec); err != nil {
			return textResult(fmt.Sprintf(`{"error": %q}`, err.Error())), nil, nil
		}
		return textResult(jsonString(map[string]any{"id": rec.ID, "status": "stored"})), nil, nil
	}
}

func recallHandler(e *engine.Engine) func(context.Context, *mcp.CallToolRequest, recallInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input recallInput) (*mcp.CallToolResult, any, error) {
		projectID := optionalString(input.ProjectID)
		result, err := e.Retriever.RetrieveContext(ctx, input.Query, projectID)
		if err != nil {
			return textResult(fmt.Sprintf(`{"error": %q}`, err.Error())), nil, nil
		}
		return textResult(jsonString(map[string]any{
			"context_prompt": result.ContextPrompt,
			"confidence":     result.Confidence,
			"sources":        result.Sources,
			"retrieval_time": result.RetrievalTime.String(),
		})), nil, nil
	}
}

func augmentHandler(e *engine.Engine) func(context.Context, *mcp.CallToolRequest, augmentInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input augmentInput) (*mcp.CallToolResult, any, error) {
		projectID := optionalString(input.ProjectID)
		result, err := e.Augmenter.Augment(ctx, input.Prompt, input.MessageIndex, projectID)
		if err != nil {
			return textResult(fmt.Sprintf(`{"error": %q}`, err.Error())), nil, nil
		}
		return textResult(jsonString(map[string]any{
			"prompt":               result.Prompt,
			"has_injected_context": result.HasInjectedContext,
			"injected_sources":     result.InjectedSources,
			"confidence":           result.Confidence,
		})), nil, nil
	}
}

func suggestionsHandler(e *engine.Engine) func(context.Context, *mcp.CallToolRequest, suggestionsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input suggestionsInput) (*mcp.CallToolResult, any, error) {
		projectID := optionalString(input.ProjectID)
		suggestions := e.Augmenter.Suggestions(input.ConversationID, input.RecentMessages, projectID)
		return textResult(jsonString(suggestions)), nil, nil
	}
}

func healthHandler(e *engine.Engine) func(context.Context, *mcp.CallToolRequest, healthInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input healthInput) (*mcp.CallToolResult, any, error) {
		return textResult(jsonString(e.HealthReport())), nil, nil
	}
}

// --- Helpers ---

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonString(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal: %v"}`, err)
	}
	return string(data)
}
