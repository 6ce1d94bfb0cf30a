// Package recordstore implements C1, the file-persisted record store with
// LRU cache, importance scoring, time-decay, hash-embedding semantic search
// and pattern detection. A single mutex serializes all mutation; reads are
// served from the in-memory set loaded at startup.
package recordstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/embedding"
	"github.com/google/uuid"
)

// ErrNotFound is returned by explicit lookups that reference an unknown id.
var ErrNotFound = errors.New("recordstore: not found")

const fileName = "memories.json"

// Store is C1: the record store.
type Store struct {
	mu       sync.RWMutex
	records  []*domain.Record
	byID     map[uuid.UUID]*domain.Record
	cache    *lru.Cache[string, *domain.Record]
	embedder embedding.Provider
	cfg      config.RecordStoreConfig
	path     string
	logger   *zap.SugaredLogger

	cancel context.CancelFunc
}

// New creates the record store, loading any existing memories.json under
// cfg.DataDir.
func New(cfg config.RecordStoreConfig, embedder embedding.Provider, logger *zap.SugaredLogger) (*Store, error) {
	if cfg.MaxCacheSize <= 0 {
		cfg.MaxCacheSize = 500
	}
	if embedder == nil {
		embedder = embedding.NewHashEmbedder(cfg.EmbeddingDim)
	}
	cache, err := lru.New[string, *domain.Record](cfg.MaxCacheSize)
	if err != nil {
		return nil, fmt.Errorf("recordstore: new cache: %w", err)
	}

	s := &Store{
		byID:     make(map[uuid.UUID]*domain.Record),
		cache:    cache,
		embedder: embedder,
		cfg:      cfg,
		path:     filepath.Join(cfg.DataDir, fileName),
		logger:   logger,
	}

	if err := s.load(); err != nil {
		// Decode/schema errors leave an empty store; the store remains usable.
		s.logger.Warnw("record store load failed, starting empty", "error", err, "path", s.path)
		s.records = nil
		s.byID = make(map[uuid.UUID]*domain.Record)
	}

	return s, nil
}

func (s *Store) load() error {
	var records []*domain.Record
	if err := readJSON(s.path, &records); err != nil {
		if isNotExist(err) {
			return nil
		}
		return err
	}
	s.records = records
	s.byID = make(map[uuid.UUID]*domain.Record, len(records))
	for _, r := range records {
		s.byID[r.ID] = r
	}
	return nil
}

// persist writes the current record set to disk. Errors are logged and
// swallowed: the in-memory store remains authoritative.
func (s *Store) persist() {
	if err := writeJSONAtomic(s.path, s.records); err != nil {
		s.logger.Errorw("record store persist failed", "error", err, "path", s.path)
	}
}

// Store appends a record, refreshes its cache entry, computes an embedding
// when semantic search is enabled, enforces the cache cap, then persists.
func (s *Store) Store(ctx context.Context, r *domain.Record) error {
	r.ClampConfidence()

	if s.cfg.EnableSemanticSearch && len(r.Embedding) == 0 {
		vec, err := s.embedder.Embed(ctx, r.Key+" "+r.Value)
		if err != nil {
			s.logger.Warnw("embed failed, storing without vector", "error", err)
		} else {
			r.Embedding = vec
		}
	}

	s.mu.Lock()
	s.records = append(s.records, r)
	s.byID[r.ID] = r
	s.cache.Add(r.Key, r)
	s.enforceCacheCapLocked()
	s.mu.Unlock()

	s.persistAsync()
	return nil
}

func (s *Store) enforceCacheCapLocked() {
	for s.cache.Len() > s.cfg.MaxCacheSize {
		s.cache.RemoveOldest()
	}
}

// persistAsync persists synchronously under a read lock snapshot; kept as a
// named seam so callers read like fire-and-forget persistence calls without
// actually racing the in-memory slice.
func (s *Store) persistAsync() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.persist()
}

// Get looks up a record by id.
func (s *Store) Get(id uuid.UUID) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// Delete removes a record by id.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	r, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.byID, id)
	s.cache.Remove(r.Key)
	s.records = removeRecord(s.records, id)
	s.mu.Unlock()

	s.persistAsync()
	return nil
}

func removeRecord(records []*domain.Record, id uuid.UUID) []*domain.Record {
	out := records[:0]
	for _, r := range records {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

// Retrieve filters by kind/category/time window, sorts by CreatedAt
// descending, and takes limit.
func (s *Store) Retrieve(kind domain.RecordKind, category string, start, end *time.Time, limit int) []*domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Record
	for _, r := range s.records {
		if kind != "" && r.Kind != kind {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		if start != nil && r.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && r.CreatedAt.After(*end) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Snapshot returns a copy of the record slice, taken under a single lock
// acquisition. The records themselves are shared, not copied.
func (s *Store) Snapshot() []*domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Close stops the background workers (time decay, consolidation).
func (s *Store) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Count returns the number of records currently held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
