package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShortTermKind enumerates the C3 working-memory entry types.
type ShortTermKind string

const (
	ShortTermContextual ShortTermKind = "contextual"
	ShortTermFactual    ShortTermKind = "factual"
	ShortTermPreference ShortTermKind = "preference"
	ShortTermProcedural ShortTermKind = "procedural"
	ShortTermTemporal   ShortTermKind = "temporal"
)

// ShortTermEntry is a bounded working-memory entry.
type ShortTermEntry struct {
	ID           uuid.UUID      `json:"id"`
	Content      string         `json:"content"`
	Tier         string         `json:"tier"` // always "shortTerm"
	Type         ShortTermKind  `json:"type"`
	Importance   float64        `json:"importance"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	LastAccessed time.Time      `json:"last_accessed"`
}

// NewShortTermEntry builds a short-term entry with importance clamped into [0,1].
func NewShortTermEntry(content string, kind ShortTermKind, importance float64, metadata map[string]any) *ShortTermEntry {
	now := time.Now()
	return &ShortTermEntry{
		ID:           uuid.New(),
		Content:      content,
		Tier:         "shortTerm",
		Type:         kind,
		Importance:   Clamp01(importance),
		Metadata:     metadata,
		CreatedAt:    now,
		LastAccessed: now,
	}
}
