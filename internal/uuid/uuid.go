// Package uuid wraps ID generation behind an interface so tests can
// substitute deterministic sequences for effect identifiers.
package uuid

import (
	"github.com/google/uuid"
)

// Generator produces unique identifier strings
type Generator interface {
	New() string
}

// GoogleUUIDGenerator backs Generator with random v4 UUIDs
type GoogleUUIDGenerator struct{}

// New returns a fresh UUID string
func (g *GoogleUUIDGenerator) New() string {
	return uuid.New().String()
}

// NewGoogleUUIDGenerator creates the production generator
func NewGoogleUUIDGenerator() *GoogleUUIDGenerator {
	return &GoogleUUIDGenerator{}
}
