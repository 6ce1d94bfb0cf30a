// Package graph implements C4, the knowledge graph: type-categorized
// entities with bidirectional adjacency, BFS path queries, deduplication,
// staleness decay, and BM25+recency hybrid search.
package graph

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/domain"
	"github.com/axiom-mind/memengine/internal/fsutil"
)

// ErrEndpointMissing is returned by AddRelationship when either endpoint is unknown.
var ErrEndpointMissing = errors.New("graph: relationship endpoint does not exist")

// ErrDuplicateEdge is returned when an identical (source, target, relationship) edge exists.
var ErrDuplicateEdge = errors.New("graph: duplicate edge")

const dirName = "KnowledgeGraph"
const fileName = "graph.json"

type snapshot struct {
	Entities []*domain.Entity `json:"entities"`
	Edges    []*domain.Edge   `json:"edges"`
}

// Graph is C4: the knowledge graph store.
type Graph struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Entity
	edges []*domain.Edge

	adjacency map[string][]string // entity id -> neighboring entity ids (undirected projection)

	dirty  bool
	path   string
	logger *zap.SugaredLogger
}

// New loads (or initializes) the knowledge graph at
// <appSupport>/<namespace>/KnowledgeGraph/graph.json.
func New(cfg config.GraphConfig, logger *zap.SugaredLogger) (*Graph, error) {
	g := &Graph{
		byID:      make(map[string]*domain.Entity),
		adjacency: make(map[string][]string),
		path:      filepath.Join(cfg.DataDir, dirName, fileName),
		logger:    logger,
	}
	if err := g.load(); err != nil {
		g.logger.Warnw("graph load failed, starting empty", "error", err, "path", g.path)
		g.byID = make(map[string]*domain.Entity)
		g.edges = nil
	}
	g.rebuildAdjacencyLocked()
	return g, nil
}

func (g *Graph) load() error {
	var snap snapshot
	if err := fsutil.ReadJSON(g.path, &snap); err != nil {
		if isNotExist(err) {
			return nil
		}
		return err
	}
	g.byID = make(map[string]*domain.Entity, len(snap.Entities))
	for _, e := range snap.Entities {
		g.byID[e.ID] = e
	}
	g.edges = snap.Edges
	return nil
}

func (g *Graph) rebuildAdjacencyLocked() {
	g.adjacency = make(map[string][]string)
	for _, e := range g.edges {
		g.adjacency[e.SourceID] = append(g.adjacency[e.SourceID], e.TargetID)
		g.adjacency[e.TargetID] = append(g.adjacency[e.TargetID], e.SourceID)
	}
}

// persistIfDirty writes the snapshot only when mutations occurred since the
// last write.
func (g *Graph) persistIfDirty() {
	g.mu.Lock()
	if !g.dirty {
		g.mu.Unlock()
		return
	}
	entities := make([]*domain.Entity, 0, len(g.byID))
	for _, e := range g.byID {
		entities = append(entities, e)
	}
	snap := snapshot{Entities: entities, Edges: g.edges}
	g.dirty = false
	g.mu.Unlock()

	if err := fsutil.WriteJSONAtomic(g.path, snap); err != nil {
		g.logger.Errorw("graph persist failed", "error", err, "path", g.path)
	}
}

// AddEntity upserts an entity by id.
func (g *Graph) AddEntity(e *domain.Entity) {
	g.mu.Lock()
	g.byID[e.ID] = e
	g.dirty = true
	g.mu.Unlock()
	g.persistIfDirty()
}

// AddOrMergeEntity merges into a similar existing entity (same type, and
// case-insensitive name equality or a >=4-char name prefix match), unioning
// attributes with new values winning and bumping referenceCount; otherwise
// adds a new entity.
func (g *Graph) AddOrMergeEntity(e *domain.Entity) string {
	g.mu.Lock()
	for _, existing := range g.byID {
		if existing.Type != e.Type {
			continue
		}
		if similarNames(existing.Name, e.Name) {
			existing.LastUpdatedAt = time.Now()
			existing.ReferenceCount++
			if existing.Attributes == nil {
				existing.Attributes = make(map[string]string)
			}
			for k, v := range e.Attributes {
				existing.Attributes[k] = v
			}
			g.dirty = true
			g.mu.Unlock()
			g.persistIfDirty()
			return existing.ID
		}
	}
	g.byID[e.ID] = e
	g.dirty = true
	g.mu.Unlock()
	g.persistIfDirty()
	return e.ID
}

func similarNames(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return true
	}
	if len(la) >= 4 && strings.HasPrefix(lb, la) {
		return true
	}
	if len(lb) >= 4 && strings.HasPrefix(la, lb) {
		return true
	}
	return false
}

// AddRelationship requires both endpoints to exist, refuses an exact
// duplicate (source, target, relationship), and appends a timestamped edge.
func (g *Graph) AddRelationship(sourceID, targetID, relationship string, confidence float64) error {
	g.mu.Lock()
	defer func() { g.mu.Unlock(); g.persistIfDirty() }()

	if _, ok := g.byID[sourceID]; !ok {
		return ErrEndpointMissing
	}
	if _, ok := g.byID[targetID]; !ok {
		return ErrEndpointMissing
	}

	edge := &domain.Edge{SourceID: sourceID, TargetID: targetID, Relationship: relationship}
	key := edge.Key()
	for _, e := range g.edges {
		if e.Key() == key {
			return ErrDuplicateEdge
		}
	}

	now := time.Now()
	edge.Confidence = domain.Clamp01(confidence)
	edge.CreatedAt = now
	edge.LastReferencedAt = now
	g.edges = append(g.edges, edge)
	g.adjacency[sourceID] = append(g.adjacency[sourceID], targetID)
	g.adjacency[targetID] = append(g.adjacency[targetID], sourceID)
	g.dirty = true
	return nil
}

// GetEntity returns an entity by id.
func (g *Graph) GetEntity(id string) (*domain.Entity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.byID[id]
	return e, ok
}

// Counts returns the current entity and edge counts.
func (g *Graph) Counts() (entities int, edges int) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.byID), len(g.edges)
}

// HighReferenceEntities returns every entity with referenceCount > minRef,
// independent of any text match.
func (g *Graph) HighReferenceEntities(minRef int) []*domain.Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*domain.Entity
	for _, e := range g.byID {
		if e.ReferenceCount > minRef {
			out = append(out, e)
		}
	}
	return out
}

// DeleteEntity removes an entity and every incident edge, so no edge ever
// points at a missing entity.
func (g *Graph) DeleteEntity(id string) {
	g.mu.Lock()
	delete(g.byID, id)
	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.SourceID != id && e.TargetID != id {
			kept = append(kept, e)
		}
	}
	g.edges = kept
	g.rebuildAdjacencyLocked()
	g.dirty = true
	g.mu.Unlock()
	g.persistIfDirty()
}

func isNotExist(err error) bool {
	return fsutil.IsNotExist(err)
}
