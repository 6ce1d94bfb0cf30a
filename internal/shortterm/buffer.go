// Package shortterm implements C3, the bounded in-memory working-memory
// buffer: a FIFO ring with keyword-overlap lookup, cleared on process end
// (no persistence).
package shortterm

import (
	"regexp"
	"strings"
	"sync"

	"github.com/axiom-mind/memengine/internal/domain"
)

const defaultCapacity = 200

// Buffer is C3: the short-term working-memory buffer.
type Buffer struct {
	mu       sync.Mutex
	entries  []*domain.ShortTermEntry
	capacity int
}

// New creates a buffer with the given capacity (falls back to 200 when <= 0).
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Add appends an entry, trimming from the front when over capacity.
func (b *Buffer) Add(content string, kind domain.ShortTermKind, importance float64, metadata map[string]any) *domain.ShortTermEntry {
	e := domain.NewShortTermEntry(content, kind, importance, metadata)

	b.mu.Lock()
	b.entries = append(b.entries, e)
	if len(b.entries) > b.capacity {
		b.entries = b.entries[len(b.entries)-b.capacity:]
	}
	b.mu.Unlock()

	return e
}

// Snapshot returns a copy of the buffer's current entries, oldest first.
func (b *Buffer) Snapshot() []*domain.ShortTermEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*domain.ShortTermEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries currently buffered.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

var tokenRe = regexp.MustCompile(`[a-zA-Z0-9]+`)

func tokenize(s string) map[string]bool {
	toks := make(map[string]bool)
	for _, t := range tokenRe.FindAllString(strings.ToLower(s), -1) {
		if len(t) > 2 {
			toks[t] = true
		}
	}
	return toks
}

// SearchByOverlap returns entries whose tokenized content shares at least
// one alphanumeric token (length > 2) with the tokenized query.
func (b *Buffer) SearchByOverlap(query string) []*domain.ShortTermEntry {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var out []*domain.ShortTermEntry
	for _, e := range b.entries {
		for t := range tokenize(e.Content) {
			if queryTokens[t] {
				out = append(out, e)
				break
			}
		}
	}
	return out
}
