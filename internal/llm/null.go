package llm

import (
	"context"
	"fmt"
	"time"
)

// NullPort is the "no provider configured" implementation of Port. Every
// caller that depends on Port must already have a deterministic fallback
// for when a chat fails; NullPort's Chat returns a stream whose only chunk
// carries an error, forcing that fallback path to be exercised.
type NullPort struct{}

func (NullPort) Chat(ctx context.Context, _ []Message, _ string, _ bool, _ time.Duration) (<-chan Chunk, error) {
	ch := make(chan Chunk, 1)
	ch <- Chunk{Err: fmt.Errorf("llm: no provider configured"), Done: true}
	close(ch)
	return ch, nil
}

// WithTimeout wraps a Port call so callers always bound external latency.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(ctx, timeout)
}
