package payment

import (
	"io"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces payment request ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 request ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ReaderGenerator draws random (version 4) UUIDs from r. Backed by a
// seeded stream it yields a reproducible id sequence.
//
// Thread-safety: not safe for concurrent use unless r is.
type ReaderGenerator struct {
	r io.Reader
}

// NewReaderGenerator returns a generator reading entropy from r.
func NewReaderGenerator(r io.Reader) *ReaderGenerator {
	return &ReaderGenerator{r: r}
}

// Generate returns the next id. Panics if r fails.
func (g *ReaderGenerator) Generate() string {
	return uuid.Must(uuid.NewRandomFromReader(g.r)).String()
}

// FixedGenerator returns predetermined ids in order, for tests.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
// Panics once all ids have been consumed.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
