package mock

import (
	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.SourceReader = (*SourceReader)(nil)

// SourceReader is a mock implementation of traverse.SourceReader.
type SourceReader struct {
	ReadSourcesFn func(locations []string) (string, error)
}

func (r *SourceReader) ReadSources(locations []string) (string, error) {
	return r.ReadSourcesFn(locations)
}
