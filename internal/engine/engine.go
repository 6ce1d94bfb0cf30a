// Package engine wires C1-C7 into a single root value constructed once at
// program start and passed around explicitly, rather than held as
// package-level singletons.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/axiom-mind/memengine/internal/augment"
	"github.com/axiom-mind/memengine/internal/config"
	"github.com/axiom-mind/memengine/internal/convo"
	"github.com/axiom-mind/memengine/internal/embedding"
	"github.com/axiom-mind/memengine/internal/eventbus"
	"github.com/axiom-mind/memengine/internal/graph"
	"github.com/axiom-mind/memengine/internal/llm"
	"github.com/axiom-mind/memengine/internal/longterm"
	"github.com/axiom-mind/memengine/internal/recordstore"
	"github.com/axiom-mind/memengine/internal/retrieval"
	"github.com/axiom-mind/memengine/internal/shortterm"
)

// Engine is the root memory engine: every store (C1-C5) plus the
// retriever (C6) and augmenter (C7), constructed once and passed around as
// a single handle.
type Engine struct {
	Records   *recordstore.Store
	LongTerm  *longterm.Store
	ShortTerm *shortterm.Buffer
	Graph     *graph.Graph
	Convo     *convo.Store
	Retriever *retrieval.Retriever
	Augmenter *augment.Augmenter

	cfg       config.Config
	logger    *zap.SugaredLogger
	startedAt time.Time
}

// Options lets a caller override the default LLM/event-bus ports; a nil
// field falls back to the no-op default.
type Options struct {
	LLM    llm.Port
	Bus    eventbus.Port
	Logger *zap.SugaredLogger
}

// New constructs every store under cfg.AppSupportDir/cfg.Namespace,
// starts C1's and C2's background workers, and wires C6/C7 on top. Each
// sub-config's DataDir is derived here rather than in config.Default, since
// it depends on both AppSupportDir and Namespace.
func New(cfg config.Config, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		z, err := zap.NewProduction()
		if err != nil {
			return nil, err
		}
		logger = z.Sugar()
	}

	root := filepath.Join(cfg.AppSupportDir, cfg.Namespace)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}

	cfg.RecordStore.DataDir = root
	cfg.LongTerm.DataDir = root
	cfg.Graph.DataDir = root
	cfg.Convo.DataDir = root

	llmPort := opts.LLM
	if llmPort == nil {
		llmPort = llm.NullPort{}
	}
	bus := opts.Bus
	if bus == nil {
		bus = eventbus.NewInMemoryBus(500)
	}

	embedder := embedding.NewHashEmbedder(cfg.RecordStore.EmbeddingDim)

	records, err := recordstore.New(cfg.RecordStore, embedder, logger)
	if err != nil {
		return nil, err
	}
	longTerm, err := longterm.New(cfg.LongTerm, logger)
	if err != nil {
		records.Close()
		return nil, err
	}
	g, err := graph.New(cfg.Graph, logger)
	if err != nil {
		records.Close()
		longTerm.Close()
		return nil, err
	}
	convoStore, err := convo.New(cfg.Convo, llmPort, logger)
	if err != nil {
		records.Close()
		longTerm.Close()
		return nil, err
	}
	shortTerm := shortterm.New(cfg.ShortTerm.Capacity)

	records.StartBackgroundWorker(cfg.RecordStore.DecayInterval, cfg.RecordStore.ConsolidateEvery)
	longTerm.StartDecayWorker()

	retriever := &retrieval.Retriever{
		Records:   records,
		ShortTerm: shortTerm,
		Convo:     convoStore,
		Graph:     g,
		Bus:       bus,
		LLM:       llmPort,
		Cfg:       cfg.Retrieval,
	}
	augmenter := &augment.Augmenter{
		Retriever: retriever,
		Records:   records,
		Convo:     convoStore,
		Cfg:       cfg.Augment,
	}

	logger.Infow("memory engine initialized",
		"appSupportDir", cfg.AppSupportDir, "namespace", cfg.Namespace,
		"semanticSearch", cfg.RecordStore.EnableSemanticSearch)

	return &Engine{
		Records:   records,
		LongTerm:  longTerm,
		ShortTerm: shortTerm,
		Graph:     g,
		Convo:     convoStore,
		Retriever: retriever,
		Augmenter: augmenter,
		cfg:       cfg,
		logger:    logger,
		startedAt: time.Now(),
	}, nil
}

// EnhancePrompt is a convenience pass-through to C6's retrieval pipeline.
func (e *Engine) EnhancePrompt(ctx context.Context, prompt string, projectID *string) (retrieval.EnhancedPrompt, error) {
	return e.Retriever.EnhancePrompt(ctx, prompt, projectID)
}

// Close stops every background worker and releases store handles.
func (e *Engine) Close() {
	e.Records.Close()
	e.LongTerm.Close()
}
