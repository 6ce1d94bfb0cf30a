package convo

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/fsutil"
	"github.com/axiom-mind/memengine/internal/llm"
	"github.com/google/uuid"
)

const (
	summariesFile = "convo_summaries.json"
	factsFile     = "convo_facts.json"
	prefsFile     = "convo_prefs.json"
	configFile    = "convo_config.json"
	projectsFile  = "project_memories.json"
)

// persistedConfig is the blob behind the "config" key.
type persistedConfig struct {
	MessageIndex int `json:"message_index"`
}

// Store is C5: conversation memory (summaries, facts, preferences, and
// project memories).
type Store struct {
	mu sync.RWMutex

	summaries []*domain.Summary
	facts     []*domain.Fact
	prefs     map[string]string
	cfgBlob   persistedConfig
	projects  []*domain.ProjectMemory

	cfg    config.ConvoConfig
	port   llm.Port
	dir    string
	logger *zap.SugaredLogger
}

// New loads (or initializes) conversation memory under
// <appSupport>/<namespace>/.
func New(cfg config.ConvoConfig, port llm.Port, logger *zap.SugaredLogger) (*Store, error) {
	s := &Store{
		prefs:  make(map[string]string),
		cfg:    cfg,
		port:   port,
		dir:    cfg.DataDir,
		logger: logger,
	}
	s.load()
	return s, nil
}

// Counts returns the number of stored facts and summaries.
func (s *Store) Counts() (facts int, summaries int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facts), len(s.summaries)
}

func (s *Store) load() {
	if err := fsutil.ReadJSON(filepath.Join(s.dir, summariesFile), &s.summaries); err != nil && !fsutil.IsNotExist(err) {
		s.logger.Warnw("convo summaries load failed", "error", err)
	}
	if err := fsutil.ReadJSON(filepath.Join(s.dir, factsFile), &s.facts); err != nil && !fsutil.IsNotExist(err) {
		s.logger.Warnw("convo facts load failed", "error", err)
	}
	if err := fsutil.ReadJSON(filepath.Join(s.dir, prefsFile), &s.prefs); err != nil && !fsutil.IsNotExist(err) {
		s.logger.Warnw("convo prefs load failed", "error", err)
	}
	if s.prefs == nil {
		s.prefs = make(map[string]string)
	}
	if err := fsutil.ReadJSON(filepath.Join(s.dir, configFile), &s.cfgBlob); err != nil && !fsutil.IsNotExist(err) {
		s.logger.Warnw("convo config load failed", "error", err)
	}
	if err := fsutil.ReadJSON(filepath.Join(s.dir, projectsFile), &s.projects); err != nil && !fsutil.IsNotExist(err) {
		s.logger.Warnw("project memories load failed", "error", err)
	}
}

func (s *Store) persistSummaries() {
	if err := fsutil.WriteJSONAtomic(filepath.Join(s.dir, summariesFile), s.summaries); err != nil {
		s.logger.Errorw("convo summaries persist failed", "error", err)
	}
}

func (s *Store) persistFacts() {
	if err := fsutil.WriteJSONAtomic(filepath.Join(s.dir, factsFile), s.facts); err != nil {
		s.logger.Errorw("convo facts persist failed", "error", err)
	}
}

func (s *Store) persistPrefs() {
	if err := fsutil.WriteJSONAtomic(filepath.Join(s.dir, prefsFile), s.prefs); err != nil {
		s.logger.Errorw("convo prefs persist failed", "error", err)
	}
}

func (s *Store) persistConfig() {
	if err := fsutil.WriteJSONAtomic(filepath.Join(s.dir, configFile), s.cfgBlob); err != nil {
		s.logger.Errorw("convo config persist failed", "error", err)
	}
}

func (s *Store) persistProjects() {
	if err := fsutil.WriteJSONAtomic(filepath.Join(s.dir, projectsFile), s.projects); err != nil {
		s.logger.Errorw("project memories persist failed", "error", err)
	}
}

// StoreFact appends a fact, skipping a case-insensitive content duplicate.
func (s *Store) StoreFact(f *domain.Fact) {
	s.mu.Lock()
	for _, existing := range s.facts {
		if strings.EqualFold(existing.Text, f.Text) {
			s.mu.Unlock()
			return
		}
	}
	f.ID = uuid.New()
	f.Timestamp = time.Now()
	s.facts = append(s.facts, f)
	s.mu.Unlock()

	s.persistFacts()
}

// SetPreference upserts a user preference.
func (s *Store) SetPreference(key, value string) {
	s.mu.Lock()
	s.prefs[key] = value
	s.mu.Unlock()
	s.persistPrefs()
}

// RecordMessage advances the message index and produces a Summary when
// messageIndex > 0 and divisible by summarizationThreshold (default 15)
//. The resulting summary (if any) is returned.
func (s *Store) RecordMessage(ctx context.Context, projectID *string, llmTimeout time.Duration) *domain.Summary {
	s.mu.Lock()
	s.cfgBlob.MessageIndex++
	idx := s.cfgBlob.MessageIndex
	threshold := s.cfg.SummarizationThreshold
	if threshold <= 0 {
		threshold = 15
	}
	shouldSummarize := idx > 0 && idx%threshold == 0
	recentFacts := s.recentFactsLocked(5)
	s.mu.Unlock()
	s.persistConfig()

	if !shouldSummarize {
		return nil
	}

	summary := s.summarize(ctx, recentFacts, projectID, llmTimeout)

	s.mu.Lock()
	s.summaries = append(s.summaries, summary)
	max := s.cfg.MaxSummariesStored
	if max <= 0 {
		max = 100
	}
	if len(s.summaries) > max {
		sort.Slice(s.summaries, func(i, j int) bool { return s.summaries[i].Importance > s.summaries[j].Importance })
		s.summaries = s.summaries[:max]
	}
	s.mu.Unlock()
	s.persistSummaries()

	return summary
}

func (s *Store) recentFactsLocked(n int) []*domain.Fact {
	if len(s.facts) <= n {
		out := make([]*domain.Fact, len(s.facts))
		copy(out, s.facts)
		return out
	}
	return append([]*domain.Fact{}, s.facts[len(s.facts)-n:]...)
}

type structuredSummary struct {
	Summary    string   `json:"summary"`
	KeyTopics  []string `json:"keyTopics"`
	Importance float64  `json:"importance"`
}

// summarize prefers an LLM-produced structured summary. When the reply is
// not valid JSON, the raw reply (truncated to 500 chars) becomes the summary
// with importance 0.5. On a missing provider, a call error, a timeout, or an
// empty reply it falls back to a deterministic summary built from the last
// facts.
func (s *Store) summarize(ctx context.Context, recentFacts []*domain.Fact, projectID *string, timeout time.Duration) *domain.Summary {
	if s.port != nil {
		if sum, ok := s.summarizeViaLLM(ctx, recentFacts, projectID, timeout); ok {
			return sum
		}
	}
	return s.deterministicSummary(recentFacts, projectID)
}

func (s *Store) summarizeViaLLM(ctx context.Context, recentFacts []*domain.Fact, projectID *string, timeout time.Duration) (*domain.Summary, bool) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := buildSummarizationPrompt(recentFacts)
	ch, err := s.port.Chat(cctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, "", false, timeout)
	if err != nil {
		return nil, false
	}
	text, err := llm.Collect(ch)
	if err != nil || text == "" {
		return nil, false
	}

	var parsed structuredSummary
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		if len(text) > 500 {
			text = text[:500]
		}
		return &domain.Summary{
			ID:         uuid.New(),
			Timestamp:  time.Now(),
			ProjectID:  projectID,
			Text:       text,
			Importance: 0.5,
		}, true
	}

	return &domain.Summary{
		ID:         uuid.New(),
		Timestamp:  time.Now(),
		ProjectID:  projectID,
		Text:       parsed.Summary,
		KeyTopics:  parsed.KeyTopics,
		Importance: domain.Clamp01(parsed.Importance),
	}, true
}

func buildSummarizationPrompt(facts []*domain.Fact) string {
	var b strings.Builder
	b.WriteString("Summarize the following conversation facts as JSON {summary, keyTopics[], importance}:\n")
	for _, f := range facts {
		b.WriteString("- ")
		b.WriteString(f.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Store) deterministicSummary(facts []*domain.Fact, projectID *string) *domain.Summary {
	texts := factTexts(facts)
	importance := clampRange(float64(len(facts))/20.0, 0.3, 0.8)
	return &domain.Summary{
		ID:         uuid.New(),
		Timestamp:  time.Now(),
		ProjectID:  projectID,
		Text:       "Topics discussed: " + strings.Join(texts, ", "),
		KeyTopics:  texts,
		Importance: importance,
	}
}

func factTexts(facts []*domain.Fact) []string {
	texts := make([]string, len(facts))
	for i, f := range facts {
		texts[i] = f.Text
	}
	return texts
}

func clampRange(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// UpsertProjectMemory appends or updates the named project's memory entry.
func (s *Store) UpsertProjectMemory(projectID, summary string, facts []string) *domain.ProjectMemory {
	s.mu.Lock()
	for _, pm := range s.projects {
		if pm.ProjectID == projectID {
			pm.Summary = summary
			pm.Facts = facts
			pm.LastTouchedAt = time.Now()
			s.mu.Unlock()
			s.persistProjects()
			return pm
		}
	}
	pm := &domain.ProjectMemory{ID: uuid.New(), ProjectID: projectID, Summary: summary, Facts: facts, LastTouchedAt: time.Now()}
	s.projects = append(s.projects, pm)
	s.mu.Unlock()
	s.persistProjects()
	return pm
}
