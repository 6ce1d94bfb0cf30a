// Package config holds the root Config and per-component sub-configs, plus
// Default, which returns the baseline values, and Load, which overlays a YAML
// file on top of them.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RecordStoreConfig configures C1.
type RecordStoreConfig struct {
	EnableTimeDecay               bool          `yaml:"enable_time_decay"`
	DecayHalfLifeDays             float64       `yaml:"decay_half_life_days"`
	MinimumConfidenceForRetention float64       `yaml:"minimum_confidence_for_retention"`
	EnableSemanticSearch          bool          `yaml:"enable_semantic_search"`
	EmbeddingDim                  int           `yaml:"embedding_dim"`
	MaxCacheSize                  int           `yaml:"max_cache_size"`
	DecayInterval                 time.Duration `yaml:"decay_interval"`
	ConsolidateEvery              int           `yaml:"consolidate_every"`
	DataDir                       string        `yaml:"data_dir"`
}

// LongTermConfig configures C2.
type LongTermConfig struct {
	BaseDecayRate      float64       `yaml:"base_decay_rate"`
	MinimumStrength    float64       `yaml:"minimum_strength"`
	ReinforcementFactor float64      `yaml:"reinforcement_factor"`
	MaxReinforcement   float64       `yaml:"max_reinforcement"`
	DecayInterval      time.Duration `yaml:"decay_interval"`
	MaxMemories        int           `yaml:"max_memories"`
	AutoPruneEnabled   bool          `yaml:"auto_prune_enabled"`
	DataDir            string        `yaml:"data_dir"`
}

// ShortTermConfig configures C3.
type ShortTermConfig struct {
	Capacity int `yaml:"capacity"`
}

// GraphConfig configures C4.
type GraphConfig struct {
	DataDir string `yaml:"data_dir"`
}

// ConvoConfig configures C5.
type ConvoConfig struct {
	SummarizationThreshold int    `yaml:"summarization_threshold"`
	MaxSummariesStored     int    `yaml:"max_summaries_stored"`
	MaxRetrievedContext    int    `yaml:"max_retrieved_context"`
	DataDir                string `yaml:"data_dir"`
	Namespace              string `yaml:"namespace"`
}

// RetrievalConfig configures C6.
type RetrievalConfig struct {
	EnableMemorySystemRetrieval bool    `yaml:"enable_memory_system_retrieval"`
	EnableConversationMemory    bool    `yaml:"enable_conversation_memory"`
	EnableKnowledgeGraph        bool    `yaml:"enable_knowledge_graph"`
	EnableEventHistory          bool    `yaml:"enable_event_history"`
	EnableAIRanking             bool    `yaml:"enable_ai_ranking"`
	MemorySystemWeight          float64 `yaml:"memory_system_weight"`
	ConversationWeight          float64 `yaml:"conversation_weight"`
	KnowledgeGraphWeight        float64 `yaml:"knowledge_graph_weight"`
	EventHistoryWeight          float64 `yaml:"event_history_weight"`
	MaxMemorySystemResults      int     `yaml:"max_memory_system_results"`
	MaxEpisodicResults          int     `yaml:"max_episodic_results"`
	MaxSemanticResults          int     `yaml:"max_semantic_results"`
	MaxProceduralResults        int     `yaml:"max_procedural_results"`
	MaxKnowledgeGraphResults    int     `yaml:"max_knowledge_graph_results"`
	MaxEventResults             int     `yaml:"max_event_results"`
	MaxTotalResults             int     `yaml:"max_total_results"`
	MinSimilarityThreshold      float64 `yaml:"min_similarity_threshold"`
	MinConfidenceToInject       float64 `yaml:"min_confidence_to_inject"`
}

// AugmentConfig configures C7's injection gate.
type AugmentConfig struct {
	InjectOnFirstMessage bool    `yaml:"inject_on_first_message"`
	DebugTaskThreshold   float64 `yaml:"debug_task_threshold"`
}

// Config is the root configuration for the memory engine.
type Config struct {
	RecordStore RecordStoreConfig `yaml:"record_store"`
	LongTerm    LongTermConfig    `yaml:"long_term"`
	ShortTerm   ShortTermConfig   `yaml:"short_term"`
	Graph       GraphConfig       `yaml:"graph"`
	Convo       ConvoConfig       `yaml:"convo"`
	Retrieval   RetrievalConfig   `yaml:"retrieval"`
	Augment     AugmentConfig     `yaml:"augment"`

	// AppSupportDir is the root directory under which every store's file
	// lives, following an "<appSupport>/<namespace>/" layout.
	AppSupportDir string `yaml:"app_support_dir"`
	Namespace     string `yaml:"namespace"`
}

// Load reads a YAML overlay from path (if it exists) on top of defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Default returns the baseline configuration for every component.
func Default() Config {
	return Config{
		AppSupportDir: "./data",
		Namespace:     "default",
		RecordStore: RecordStoreConfig{
			EnableTimeDecay:               true,
			DecayHalfLifeDays:             30,
			MinimumConfidenceForRetention: 0.15,
			EnableSemanticSearch:          true,
			EmbeddingDim:                  384,
			MaxCacheSize:                  500,
			DecayInterval:                 time.Hour,
			ConsolidateEvery:              24,
		},
		LongTerm: LongTermConfig{
			BaseDecayRate:       0.1,
			MinimumStrength:     0.1,
			ReinforcementFactor: 0.2,
			MaxReinforcement:    0.5,
			DecayInterval:       3600 * time.Second,
			MaxMemories:         5000,
			AutoPruneEnabled:    true,
		},
		ShortTerm: ShortTermConfig{
			Capacity: 200,
		},
		Convo: ConvoConfig{
			SummarizationThreshold: 15,
			MaxSummariesStored:     100,
			MaxRetrievedContext:    5,
		},
		Retrieval: RetrievalConfig{
			EnableMemorySystemRetrieval: true,
			EnableConversationMemory:    true,
			EnableKnowledgeGraph:        true,
			EnableEventHistory:          true,
			EnableAIRanking:             false,
			MemorySystemWeight:          0.35,
			ConversationWeight:          0.30,
			KnowledgeGraphWeight:        0.20,
			EventHistoryWeight:          0.15,
			MaxMemorySystemResults:      10,
			MaxEpisodicResults:          5,
			MaxSemanticResults:          5,
			MaxProceduralResults:        3,
			MaxKnowledgeGraphResults:    5,
			MaxEventResults:             5,
			MaxTotalResults:             15,
			MinSimilarityThreshold:      0.3,
			MinConfidenceToInject:       0.4,
		},
		Augment: AugmentConfig{
			InjectOnFirstMessage: false,
			DebugTaskThreshold:   0.3,
		},
	}
}
