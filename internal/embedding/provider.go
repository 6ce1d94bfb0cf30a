// Package embedding provides the deterministic hash embedding C1 uses for
// semantic search, behind a small Provider interface so a richer ML-backed
// embedder can be swapped in later without touching callers.
package embedding

import "context"

// Provider generates a fixed-dimension vector embedding from text.
// Built-in: HashEmbedder (deterministic, non-ML). A richer provider-backed
// embedder can be substituted behind this interface without changing the
// storage format.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
