package engine

import (
	"time"

	"github.com/dustin/go-humanize"
)

// Stats is a read-only snapshot of how much each tier currently holds:
// callers get an immutable value, never a live reference into a store.
type Stats struct {
	Records         int
	LongTermFacts   int
	ShortTermBuffer int
	GraphEntities   int
	GraphEdges      int
	ConvoFacts      int
	ConvoSummaries  int
}

// Stats takes one snapshot of every tier's current size.
func (e *Engine) Stats() Stats {
	entities, edges := e.Graph.Counts()
	facts, summaries := e.Convo.Counts()
	return Stats{
		Records:         e.Records.Count(),
		LongTermFacts:   e.LongTerm.Count(),
		ShortTermBuffer: e.ShortTerm.Len(),
		GraphEntities:   entities,
		GraphEdges:      edges,
		ConvoFacts:      facts,
		ConvoSummaries:  summaries,
	}
}

// HealthReport is a human-readable summary of Stats plus how long the
// engine has been running, meant for logging or a status endpoint, not for
// programmatic branching (that's what Stats is for).
type HealthReport struct {
	Stats     Stats
	Uptime    string
	Namespace string
	DataDir   string
}

// HealthReport renders Stats alongside engine uptime and configuration,
// using humanize for human-readable relative-time formatting.
func (e *Engine) HealthReport() HealthReport {
	return HealthReport{
		Stats:     e.Stats(),
		Uptime:    humanize.RelTime(e.startedAt, time.Now(), "ago", "from now"),
		Namespace: e.cfg.Namespace,
		DataDir:   e.cfg.AppSupportDir,
	}
}
