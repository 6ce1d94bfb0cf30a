// Package longterm implements C2, the long-term fact store: strength-scored
// facts that decay on a schedule and reinforce (with diminishing returns) on
// recall, persisted as a JSON file with category and keyword indices.
package longterm

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/fsutil"
	"github.com/google/uuid"
)

func isNotExist(err error) bool { return os.IsNotExist(err) }

// ErrNotFound mirrors C1's sentinel for unknown-id lookups.
var ErrNotFound = errors.New("longterm: not found")

const fileName = "long_term_facts.json"

// Store is C2: the long-term fact store.
type Store struct {
	mu            sync.RWMutex
	facts         []*domain.LongTermFact
	byID          map[uuid.UUID]*domain.LongTermFact
	categoryIndex map[string][]*domain.LongTermFact
	keywordIndex  map[string][]*domain.LongTermFact

	cfg    config.LongTermConfig
	path   string
	logger *zap.SugaredLogger
	cancel func()
}

// New loads (or initializes) the long-term fact store.
func New(cfg config.LongTermConfig, logger *zap.SugaredLogger) (*Store, error) {
	s := &Store{
		byID:          make(map[uuid.UUID]*domain.LongTermFact),
		categoryIndex: make(map[string][]*domain.LongTermFact),
		keywordIndex:  make(map[string][]*domain.LongTermFact),
		cfg:           cfg,
		path:          filepath.Join(cfg.DataDir, fileName),
		logger:        logger,
	}
	if err := s.load(); err != nil {
		s.logger.Warnw("long-term store load failed, starting empty", "error", err, "path", s.path)
		s.facts = nil
		s.byID = make(map[uuid.UUID]*domain.LongTermFact)
	}
	s.rebuildIndexesLocked()
	return s, nil
}

func (s *Store) load() error {
	var facts []*domain.LongTermFact
	if err := fsutil.ReadJSON(s.path, &facts); err != nil {
		if isNotExist(err) {
			return nil
		}
		return err
	}
	s.facts = facts
	s.byID = make(map[uuid.UUID]*domain.LongTermFact, len(facts))
	for _, f := range facts {
		s.byID[f.ID] = f
	}
	return nil
}

func (s *Store) rebuildIndexesLocked() {
	s.categoryIndex = make(map[string][]*domain.LongTermFact)
	s.keywordIndex = make(map[string][]*domain.LongTermFact)
	for _, f := range s.facts {
		s.categoryIndex[f.Category] = append(s.categoryIndex[f.Category], f)
		for _, kw := range f.Keywords {
			k := strings.ToLower(kw)
			s.keywordIndex[k] = append(s.keywordIndex[k], f)
		}
	}
}

func (s *Store) persist() {
	if err := fsutil.WriteJSONAtomic(s.path, s.facts); err != nil {
		s.logger.Errorw("long-term store persist failed", "error", err, "path", s.path)
	}
}

func (s *Store) persistAsync() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.persist()
}

// StoreFact appends a new long-term fact, or reinforces an existing one with
// the same content+category pair instead of duplicating it, then enforces
// maxMemories (default 5000) by evicting the weakest facts until under cap.
func (s *Store) StoreFact(content, category string, initialStrength float64, keywords []string, source domain.Source) (*domain.LongTermFact, error) {
	s.mu.Lock()
	for _, f := range s.facts {
		if f.Category == category && strings.EqualFold(f.Content, content) {
			s.mu.Unlock()
			return f, s.Reinforce(f.ID)
		}
	}

	f := domain.NewLongTermFact(content, category, initialStrength, keywords, source)
	s.facts = append(s.facts, f)
	s.byID[f.ID] = f
	s.enforceMaxMemoriesLocked()
	s.rebuildIndexesLocked()
	s.mu.Unlock()

	s.persistAsync()
	return f, nil
}

func (s *Store) enforceMaxMemoriesLocked() {
	max := s.cfg.MaxMemories
	if max <= 0 {
		max = 5000
	}
	if len(s.facts) <= max {
		return
	}
	sort.Slice(s.facts, func(i, j int) bool { return s.facts[i].Strength < s.facts[j].Strength })
	evicted := s.facts[:len(s.facts)-max]
	for _, f := range evicted {
		delete(s.byID, f.ID)
	}
	s.facts = s.facts[len(s.facts)-max:]
}

// Reinforce applies diminishing-returns reinforcement:
// boost = min(maxReinforcement, reinforcementFactor*(1-strength));
// strength = min(1, strength+boost); reinforcementCount += 1.
func (s *Store) Reinforce(id uuid.UUID) error {
	s.mu.Lock()
	f, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	boost := s.cfg.ReinforcementFactor * (1 - f.Strength)
	if boost > s.cfg.MaxReinforcement {
		boost = s.cfg.MaxReinforcement
	}
	f.Strength = domain.Clamp01(f.Strength + boost)
	f.ReinforcementCount++
	now := time.Now()
	f.LastReinforcedAt = &now
	s.mu.Unlock()

	s.persistAsync()
	return nil
}

// DecayUnusedFacts applies linear idle decay to every fact's strength
// (delta = baseDecayRate * daysIdle * (1-strength)), pruning any fact whose
// strength falls below minimumStrength when autoPruneEnabled is set.
func (s *Store) DecayUnusedFacts() {
	now := time.Now()
	s.mu.Lock()
	var kept []*domain.LongTermFact
	for _, f := range s.facts {
		since := f.CreatedAt
		if f.LastReinforcedAt != nil {
			since = *f.LastReinforcedAt
		}
		daysIdle := now.Sub(since).Hours() / 24.0
		delta := s.cfg.BaseDecayRate * daysIdle * (1 - f.Strength)
		f.Strength = math.Max(0, f.Strength-delta)

		if s.cfg.AutoPruneEnabled && f.Strength < s.cfg.MinimumStrength {
			delete(s.byID, f.ID)
			continue
		}
		kept = append(kept, f)
	}
	s.facts = kept
	s.rebuildIndexesLocked()
	s.mu.Unlock()

	s.persistAsync()
}

// Search unions keywordIndex matches with a linear content-contains pass,
// filters by minStrength (default 0.2), and ranks by strength descending,
// taking limit (default 20).
func (s *Store) Search(keywords []string, minStrength float64, limit int) []*domain.LongTermFact {
	if limit <= 0 {
		limit = 20
	}
	if minStrength <= 0 {
		minStrength = 0.2
	}

	s.mu.RLock()
	seen := make(map[uuid.UUID]bool)
	var out []*domain.LongTermFact
	for _, kw := range keywords {
		for _, f := range s.keywordIndex[strings.ToLower(kw)] {
			if !seen[f.ID] {
				seen[f.ID] = true
				out = append(out, f)
			}
		}
	}
	for _, f := range s.facts {
		if seen[f.ID] {
			continue
		}
		lc := strings.ToLower(f.Content)
		for _, kw := range keywords {
			if strings.Contains(lc, strings.ToLower(kw)) {
				seen[f.ID] = true
				out = append(out, f)
				break
			}
		}
	}
	s.mu.RUnlock()

	filtered := out[:0]
	for _, f := range out {
		if f.Strength >= minStrength {
			filtered = append(filtered, f)
		}
	}
	out = filtered

	sort.Slice(out, func(i, j int) bool { return out[i].Strength > out[j].Strength })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetActiveMemories filters by minStrength (default 0.3) and an optional
// category, ranked by strength descending, taking limit.
func (s *Store) GetActiveMemories(minStrength float64, category string, limit int) []*domain.LongTermFact {
	if minStrength <= 0 {
		minStrength = 0.3
	}
	s.mu.RLock()
	var out []*domain.LongTermFact
	for _, f := range s.facts {
		if f.Strength < minStrength {
			continue
		}
		if category != "" && f.Category != category {
			continue
		}
		out = append(out, f)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Strength > out[j].Strength })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Get looks up a fact by id.
func (s *Store) Get(id uuid.UUID) (*domain.LongTermFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f, nil
}

// ByCategory returns every fact under a category.
func (s *Store) ByCategory(category string) []*domain.LongTermFact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.LongTermFact, len(s.categoryIndex[category]))
	copy(out, s.categoryIndex[category])
	return out
}

// Close stops any background decay worker.
func (s *Store) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Count returns the number of facts currently held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facts)
}
