// Package trackingid allocates public parcel identifiers.
package trackingid

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultPrefix is used when no prefix is configured.
const DefaultPrefix = "TRK"

// Generator produces prefixed, time-sortable tracking IDs.
type Generator interface {
	Next() string
}

// ULIDGenerator appends a monotonic ULID to a fixed prefix.
type ULIDGenerator struct {
	prefix string
	now    func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewGenerator builds a ULID generator. An empty prefix falls back to DefaultPrefix.
func NewGenerator(prefix string) *ULIDGenerator {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ULIDGenerator{
		prefix:  prefix,
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Next returns a new tracking ID such as TRK01HV6Z3D4X5R8Q2M9N7K1B0C3E.
func (g *ULIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
	return g.prefix + id.String()
}

// Prefix returns the configured prefix.
func (g *ULIDGenerator) Prefix() string {
	return g.prefix
}
