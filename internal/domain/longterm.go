package domain

import (
	"time"

	"github.com/google/uuid"
)

// LongTermFact is the C2 fact model.
type LongTermFact struct {
	ID                 uuid.UUID  `json:"id"`
	Content            string     `json:"content"`
	Category           string     `json:"category"`
	Strength           float64    `json:"strength"`
	Keywords           []string   `json:"keywords"`
	Source             Source     `json:"source"`
	CreatedAt          time.Time  `json:"created_at"`
	LastReinforcedAt   *time.Time `json:"last_reinforced_at,omitempty"`
	ReinforcementCount int        `json:"reinforcement_count"`
}

// NewLongTermFact builds a fact with strength clamped into [0,1].
func NewLongTermFact(content, category string, initialStrength float64, keywords []string, source Source) *LongTermFact {
	return &LongTermFact{
		ID:        uuid.New(),
		Content:   content,
		Category:  category,
		Strength:  Clamp01(initialStrength),
		Keywords:  keywords,
		Source:    source,
		CreatedAt: time.Now(),
	}
}
