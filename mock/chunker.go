package mock

import (
	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.Chunker = (*Chunker)(nil)

// Chunker is a mock implementation of traverse.Chunker.
type Chunker struct {
	ChunkFn func(diagram, dir string) (*traverse.ChunkSet, error)
}

func (c *Chunker) Chunk(diagram, dir string) (*traverse.ChunkSet, error) {
	return c.ChunkFn(diagram, dir)
}
