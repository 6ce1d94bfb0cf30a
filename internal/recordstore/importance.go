package recordstore

import (
	"math"
	"time"

	"github.com/axiom-mind/memengine/internal/domain"
)

// ImportanceWeights are the default weighting of the composite importance
// score. Feedback weight is reserved and never applied yet.
type ImportanceWeights struct {
	Recency    float64
	Frequency  float64
	Confidence float64
	SourceW    float64
	Feedback   float64 // reserved, unused
}

// DefaultImportanceWeights returns the default weight tuple.
func DefaultImportanceWeights() ImportanceWeights {
	return ImportanceWeights{Recency: 0.25, Frequency: 0.20, Confidence: 0.30, SourceW: 0.15, Feedback: 0.10}
}

// Importance computes the composite importance score, clamped to [0,1].
func Importance(r *domain.Record, w ImportanceWeights, now time.Time) float64 {
	daysSinceAccess := now.Sub(r.LastAccessed).Hours() / 24.0
	recency := math.Exp(-daysSinceAccess / 30.0)
	frequency := math.Min(1, float64(r.AccessCount)/20.0)

	score := w.Recency*recency +
		w.Frequency*frequency +
		w.Confidence*r.Confidence +
		w.SourceW*domain.SourceWeight[r.Source] +
		domain.TypeBonus[r.Kind]

	return domain.Clamp01(score)
}
