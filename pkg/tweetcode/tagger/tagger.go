// Package tagger produces placeholder hierarchical labels for missing cells.
//
// Generated tags have the same shape as coder-entered labels ("abcdef>ghijkl>mnopqr")
// and carry no marker that distinguishes them from real data.
package tagger

import (
	"math/rand/v2"
	"strings"
)

const (
	// DefaultSegments is the number of ">"-joined segments in a default tag.
	DefaultSegments = 3
	// DefaultSegmentLength is the number of letters per segment.
	DefaultSegmentLength = 6

	letters = "abcdefghijklmnopqrstuvwxyz"
)

// Generator draws tag letters from a random source.
type Generator struct {
	rng *rand.Rand
}

// New returns a Generator backed by src. A nil src uses the global unseeded source.
func New(src rand.Source) *Generator {
	if src == nil {
		return &Generator{}
	}
	return &Generator{rng: rand.New(src)}
}

// NewSeeded returns a Generator whose output is reproducible for a given seed.
func NewSeeded(seed uint64) *Generator {
	return New(rand.NewPCG(seed, seed))
}

// Generate returns segments groups of length lowercase letters joined by ">".
// Each letter is drawn independently and uniformly.
func (g *Generator) Generate(segments, length int) string {
	parts := make([]string, 0, max(segments, 0))
	for range segments {
		var b strings.Builder
		b.Grow(max(length, 0))
		for range length {
			b.WriteByte(letters[g.intN(len(letters))])
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ">")
}

// Tag returns a tag with the default shape.
func (g *Generator) Tag() string {
	return g.Generate(DefaultSegments, DefaultSegmentLength)
}

func (g *Generator) intN(n int) int {
	if g.rng == nil {
		return rand.IntN(n)
	}
	return g.rng.IntN(n)
}

var defaultGenerator = New(nil)

// Generate returns a default-shaped tag from the global source.
func Generate() string {
	return defaultGenerator.Tag()
}
