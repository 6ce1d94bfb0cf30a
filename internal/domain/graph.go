package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// EntityType enumerates the C4 entity categories.
type EntityType string

const (
	EntityPerson        EntityType = "person"
	EntityPlace         EntityType = "place"
	EntityHabit         EntityType = "habit"
	EntityGoal          EntityType = "goal"
	EntityHealthMetric  EntityType = "health_metric"
	EntityProject       EntityType = "project"
	EntityEvent         EntityType = "event"
	EntityTopic         EntityType = "topic"
	EntitySkill         EntityType = "skill"
	EntityPreference    EntityType = "preference"
)

var slugRe = regexp.MustCompile(`\s+`)

// Slug lowercases name and replaces runs of whitespace with underscores.
func Slug(name string) string {
	return slugRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
}

// EntityID computes the deterministic "<type>:<slug(name)>" id.
func EntityID(t EntityType, name string) string {
	return fmt.Sprintf("%s:%s", t, Slug(name))
}

// Entity is a node in the knowledge graph.
type Entity struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Type            EntityType        `json:"type"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	LastUpdatedAt   time.Time         `json:"last_updated_at"`
	ReferenceCount  int               `json:"reference_count"` // >= 1
}

// NewEntity constructs an entity with a deterministic id and reference count 1.
func NewEntity(t EntityType, name string, attrs map[string]string) *Entity {
	now := time.Now()
	return &Entity{
		ID:             EntityID(t, name),
		Name:           name,
		Type:           t,
		Attributes:     attrs,
		CreatedAt:      now,
		LastUpdatedAt:  now,
		ReferenceCount: 1,
	}
}

// Edge is a directed, typed relationship between two entities.
type Edge struct {
	SourceID         string    `json:"source_id"`
	TargetID         string    `json:"target_id"`
	Relationship     string    `json:"relationship"`
	Confidence       float64   `json:"confidence"`
	CreatedAt        time.Time `json:"created_at"`
	LastReferencedAt time.Time `json:"last_referenced_at"`
}

// Key uniquely identifies an edge for duplicate detection.
func (e Edge) Key() string {
	return e.SourceID + "\x00" + e.TargetID + "\x00" + e.Relationship
}
