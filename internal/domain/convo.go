package domain

import (
	"time"

	"github.com/google/uuid"
)

// FactCategory enumerates the C5 fact categories produced by extraction
// and by the learning pipeline's category mapping.
type FactCategory string

const (
	FactUserPreference   FactCategory = "userPreference"
	FactUserInfo         FactCategory = "userInfo"
	FactTechnicalContext FactCategory = "technicalContext"
	FactProjectDetails   FactCategory = "projectDetails"
	FactDomainKnowledge  FactCategory = "domainKnowledge"
)

// Summary is a conversation summary.
type Summary struct {
	ID           uuid.UUID `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ProjectID    *string   `json:"project_id,omitempty"`
	Text         string    `json:"text"`
	KeyTopics    []string  `json:"key_topics"`
	MessageCount int       `json:"message_count"`
	Importance   float64   `json:"importance"`
}

// Fact is a learned conversational fact.
type Fact struct {
	ID               uuid.UUID    `json:"id"`
	Timestamp        time.Time    `json:"timestamp"`
	Category         FactCategory `json:"category"`
	Text             string       `json:"text"`
	Source           Source       `json:"source"`
	Confidence       float64      `json:"confidence"`
	LastReferencedAt *time.Time   `json:"last_referenced_at,omitempty"`
}

// ProjectMemory is a project-scoped overlay: a running summary and fact
// list keyed by project, persisted separately from the per-conversation
// summaries and facts so a project's context survives across conversations.
type ProjectMemory struct {
	ID            uuid.UUID `json:"id"`
	ProjectID     string    `json:"project_id"`
	Summary       string    `json:"summary"`
	Facts         []string  `json:"facts"`
	LastTouchedAt time.Time `json:"last_touched_at"`
}
