package mock

import (
	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var (
	_ traverse.GraphBuilder    = (*GraphBuilder)(nil)
	_ traverse.DiagramRenderer = (*DiagramRenderer)(nil)
	_ traverse.StorageAnalyzer = (*StorageAnalyzer)(nil)
)

// GraphBuilder is a mock implementation of traverse.GraphBuilder.
type GraphBuilder struct {
	BuildCallGraphFn func(source string) (*traverse.CallGraph, error)
}

func (b *GraphBuilder) BuildCallGraph(source string) (*traverse.CallGraph, error) {
	return b.BuildCallGraphFn(source)
}

// DiagramRenderer is a mock implementation of traverse.DiagramRenderer.
type DiagramRenderer struct {
	RenderFn func(g *traverse.CallGraph) (string, error)
}

func (r *DiagramRenderer) Render(g *traverse.CallGraph) (string, error) {
	return r.RenderFn(g)
}

// StorageAnalyzer is a mock implementation of traverse.StorageAnalyzer.
type StorageAnalyzer struct {
	AnalyzeStorageFn func(g *traverse.CallGraph) (traverse.StorageSummary, error)
}

func (a *StorageAnalyzer) AnalyzeStorage(g *traverse.CallGraph) (traverse.StorageSummary, error) {
	return a.AnalyzeStorageFn(g)
}
