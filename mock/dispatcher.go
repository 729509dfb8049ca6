package mock

import (
	"context"

	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.Dispatcher = (*Dispatcher)(nil)

// Dispatcher is a mock implementation of traverse.Dispatcher.
type Dispatcher struct {
	CallGraphDiagramFn func(ctx context.Context, sources []string, contractFilter string) (*traverse.CallGraphDiagram, error)
	FlowchartFn        func(ctx context.Context, sources []string, contractFilter string, noChunk bool, chunkDir string) (*traverse.Flowchart, error)
	AllDiagramsFn      func(ctx context.Context, sources []string, contractFilter string) (*traverse.AllDiagrams, error)
	StorageLayoutFn    func(ctx context.Context, sources []string, contractName string) (*traverse.StorageLayout, error)
	ShutdownFn         func() error
}

func (d *Dispatcher) CallGraphDiagram(ctx context.Context, sources []string, contractFilter string) (*traverse.CallGraphDiagram, error) {
	return d.CallGraphDiagramFn(ctx, sources, contractFilter)
}

func (d *Dispatcher) Flowchart(ctx context.Context, sources []string, contractFilter string, noChunk bool, chunkDir string) (*traverse.Flowchart, error) {
	return d.FlowchartFn(ctx, sources, contractFilter, noChunk, chunkDir)
}

func (d *Dispatcher) AllDiagrams(ctx context.Context, sources []string, contractFilter string) (*traverse.AllDiagrams, error) {
	return d.AllDiagramsFn(ctx, sources, contractFilter)
}

func (d *Dispatcher) StorageLayout(ctx context.Context, sources []string, contractName string) (*traverse.StorageLayout, error) {
	return d.StorageLayoutFn(ctx, sources, contractName)
}

func (d *Dispatcher) Shutdown() error {
	return d.ShutdownFn()
}
