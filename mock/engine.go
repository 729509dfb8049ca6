package mock

import (
	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.Engine = (*Engine)(nil)

// Engine is a mock implementation of traverse.Engine.
type Engine struct {
	BuildCallGraphFn func(source string) (*traverse.CallGraph, error)
	RenderDOTFn      func(g *traverse.CallGraph) (string, error)
	RenderSequenceFn func(g *traverse.CallGraph) (string, error)
	AnalyzeStorageFn func(g *traverse.CallGraph) (traverse.StorageSummary, error)
}

func (e *Engine) BuildCallGraph(source string) (*traverse.CallGraph, error) {
	return e.BuildCallGraphFn(source)
}

func (e *Engine) RenderDOT(g *traverse.CallGraph) (string, error) {
	return e.RenderDOTFn(g)
}

func (e *Engine) RenderSequence(g *traverse.CallGraph) (string, error) {
	return e.RenderSequenceFn(g)
}

func (e *Engine) AnalyzeStorage(g *traverse.CallGraph) (traverse.StorageSummary, error) {
	return e.AnalyzeStorageFn(g)
}
