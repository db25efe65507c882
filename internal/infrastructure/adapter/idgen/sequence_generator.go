package idgen

import (
	"fmt"
	"sync/atomic"
)

// SequenceGenerator hands out readable sequential identifiers such as "order-0001".
// Used for fixtures and local demos where UUIDs get in the way.
type SequenceGenerator struct {
	prefix string
	next   atomic.Int64
}

// NewSequenceGenerator creates a generator whose identifiers start with prefix
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// NewID returns the next identifier
func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%04d", g.prefix, g.next.Add(1))
}
