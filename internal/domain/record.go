// Package domain holds the shared data model for the memory engine: the
// record/fact/entity/edge types every component (C1-C7) operates on.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordKind is the four-way split of the record store (C1).
type RecordKind string

const (
	KindSemantic    RecordKind = "semantic"
	KindEpisodic    RecordKind = "episodic"
	KindProcedural  RecordKind = "procedural"
	KindProspective RecordKind = "prospective"
)

func ValidRecordKind(k string) bool {
	switch RecordKind(k) {
	case KindSemantic, KindEpisodic, KindProcedural, KindProspective:
		return true
	}
	return false
}

// Source describes how a record came to exist.
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceInferred Source = "inferred"
	SourceSystem   Source = "system"
)

// TypeBonus is the per-kind importance bonus.
var TypeBonus = map[RecordKind]float64{
	KindProcedural:  0.2,
	KindProspective: 0.3,
	KindSemantic:    0.1,
	KindEpisodic:    0.0,
}

// SourceWeight is the per-source importance weight.
var SourceWeight = map[Source]float64{
	SourceExplicit: 1.0,
	SourceInferred: 0.7,
	SourceSystem:   0.5,
}

// EpisodicMeta is the metadata payload for episodic records.
type EpisodicMeta struct {
	Outcome          string  `json:"outcome,omitempty"`
	EmotionalValence float64 `json:"emotional_valence"` // [-1,1]
}

// ProceduralMeta is the metadata payload for procedural records.
type ProceduralMeta struct {
	SuccessRate      float64 `json:"success_rate"`
	AverageDuration  float64 `json:"average_duration_seconds"`
	ExecutionCount   int     `json:"execution_count"`
}

// ProspectiveMeta is the metadata payload for prospective (future-intention) records.
type ProspectiveMeta struct {
	Trigger     Trigger `json:"trigger"`
	IsTriggered bool    `json:"is_triggered"`
}

// Metadata is a kind-specific tagged variant, replacing the source's
// dynamic metadata bag.
// Exactly one field is populated, matching the record's Kind.
type Metadata struct {
	Episodic   *EpisodicMeta   `json:"episodic,omitempty"`
	Procedural *ProceduralMeta `json:"procedural,omitempty"`
	Prospective *ProspectiveMeta `json:"prospective,omitempty"`
}

// Record is the core C1 record model.
type Record struct {
	ID             uuid.UUID  `json:"id"`
	Kind           RecordKind `json:"kind"`
	Category       string     `json:"category"`
	Key            string     `json:"key"`
	Value          string     `json:"value"`
	Confidence     float64    `json:"confidence"`
	Source         Source     `json:"source"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessed   time.Time  `json:"last_accessed"`
	AccessCount    uint64     `json:"access_count"`
	Metadata       *Metadata  `json:"metadata,omitempty"`
	Embedding      []float32  `json:"embedding,omitempty"`
}

// Clamp01 clamps x into [0,1].
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// ClampConfidence keeps Confidence within [0,1].
func (r *Record) ClampConfidence() {
	r.Confidence = Clamp01(r.Confidence)
}

// NewRecord builds a record with a fresh ID, clamped confidence, and
// CreatedAt/LastAccessed set to now.
func NewRecord(kind RecordKind, category, key, value string, confidence float64, source Source) *Record {
	now := time.Now()
	return &Record{
		ID:           uuid.New(),
		Kind:         kind,
		Category:     category,
		Key:          key,
		Value:        value,
		Confidence:   Clamp01(confidence),
		Source:       source,
		CreatedAt:    now,
		LastAccessed: now,
		AccessCount:  0,
	}
}
