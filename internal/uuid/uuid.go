// Package uuid generates identifiers for characters, actions, spells and items.
package uuid

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator hands out unique string ids
type Generator interface {
	New() string
}

// GoogleUUIDGenerator produces random v4 UUIDs
type GoogleUUIDGenerator struct{}

// New returns a new UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates a GoogleUUIDGenerator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}

// SequentialGenerator produces predictable ids like "action-1", "action-2".
// Used by tests and by the CLI when --deterministic is set.
type SequentialGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequentialGenerator creates a SequentialGenerator with the given prefix
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix, next: 1}
}

// New returns the next id in the sequence
func (g *SequentialGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%d", g.prefix, g.next)
	g.next++
	return id
}
