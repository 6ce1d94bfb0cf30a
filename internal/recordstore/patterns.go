package recordstore

import (
	"fmt"
	"sort"
	"time"

	"github.com/axiom-mind/memengine/internal/domain"
)

// Pattern is a detected recurring-behavior bucket.
type Pattern struct {
	Event      string
	Frequency  int
	Hour       int
	Weekday    int
	Confidence float64
}

type bucketKey struct {
	hour    int
	weekday int
	key     string
}

// DetectPatterns buckets episodic records created within windowDays by
// (hourOfDay, weekday, key) and emits a Pattern for any bucket whose count
// meets minOccurrences, sorted by confidence descending.
func (s *Store) DetectPatterns(windowDays int, minOccurrences int) []Pattern {
	if windowDays <= 0 {
		windowDays = 30
	}
	if minOccurrences <= 0 {
		minOccurrences = 3
	}
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	s.mu.RLock()
	counts := make(map[bucketKey]int)
	for _, r := range s.records {
		if r.Kind != domain.KindEpisodic || r.CreatedAt.Before(cutoff) {
			continue
		}
		bk := bucketKey{hour: r.CreatedAt.Hour(), weekday: int(r.CreatedAt.Weekday()), key: r.Key}
		counts[bk]++
	}
	s.mu.RUnlock()

	var patterns []Pattern
	for bk, n := range counts {
		if n < minOccurrences {
			continue
		}
		patterns = append(patterns, Pattern{
			Event:      bk.key,
			Frequency:  n,
			Hour:       bk.hour,
			Weekday:    bk.weekday,
			Confidence: domain.Clamp01(float64(n) / float64(windowDays)),
		})
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].Confidence > patterns[j].Confidence })
	return patterns
}

func (p Pattern) String() string {
	return fmt.Sprintf("%s @ %02d:00 weekday=%d (x%d, conf=%.2f)", p.Event, p.Hour, p.Weekday, p.Frequency, p.Confidence)
}
