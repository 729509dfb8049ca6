package traverse

import (
	"errors"
	"fmt"
)

// GraphBuilder turns Solidity source text into a call graph.
type GraphBuilder interface {
	BuildCallGraph(source string) (*CallGraph, error)
}

// DiagramRenderer serialises a call graph into a textual diagram format.
type DiagramRenderer interface {
	Render(g *CallGraph) (string, error)
}

// StorageAnalyzer computes which state variables each entry point reads and writes.
type StorageAnalyzer interface {
	AnalyzeStorage(g *CallGraph) (StorageSummary, error)
}

// Engine is everything the generation worker needs from the analysis engine.
type Engine interface {
	BuildCallGraph(source string) (*CallGraph, error)
	RenderDOT(g *CallGraph) (string, error)
	RenderSequence(g *CallGraph) (string, error)
	AnalyzeStorage(g *CallGraph) (StorageSummary, error)
}

// Chunker splits a sequence diagram into numbered chunk files under dir.
type Chunker interface {
	Chunk(diagram, dir string) (*ChunkSet, error)
}

// SourceReader resolves document locations and concatenates their contents.
type SourceReader interface {
	// ReadSources returns every file's content followed by a newline, in
	// order, or the first error encountered.
	ReadSources(locations []string) (string, error)
}

// Compile-time interface verification.
var _ Engine = (*Analyzer)(nil)

// Analyzer composes a builder, renderers and a storage analyzer into an
// Engine. Every failure is reported as an *EngineError.
type Analyzer struct {
	Builder  GraphBuilder
	DOT      DiagramRenderer
	Sequence DiagramRenderer
	Storage  StorageAnalyzer
}

// BuildCallGraph builds a call graph from concatenated source text.
func (a *Analyzer) BuildCallGraph(source string) (*CallGraph, error) {
	g, err := a.Builder.BuildCallGraph(source)
	if err != nil {
		return nil, engineError("build", err)
	}
	if g == nil {
		return nil, &EngineError{Op: "build", Reason: "builder returned no graph"}
	}
	return g, nil
}

// RenderDOT renders the graph as a Graphviz digraph.
func (a *Analyzer) RenderDOT(g *CallGraph) (string, error) {
	out, err := a.DOT.Render(g)
	if err != nil {
		return "", engineError("dot", err)
	}
	return out, nil
}

// RenderSequence renders the graph as a Mermaid sequence diagram.
func (a *Analyzer) RenderSequence(g *CallGraph) (string, error) {
	out, err := a.Sequence.Render(g)
	if err != nil {
		return "", engineError("sequence", err)
	}
	return out, nil
}

// AnalyzeStorage summarises storage reads and writes per entry point.
func (a *Analyzer) AnalyzeStorage(g *CallGraph) (StorageSummary, error) {
	summary, err := a.Storage.AnalyzeStorage(g)
	if err != nil {
		return nil, engineError("storage", err)
	}
	return summary, nil
}

func engineError(op string, err error) error {
	var engErr *EngineError
	if errors.As(err, &engErr) {
		return err
	}
	return &EngineError{Op: op, Reason: fmt.Sprint(err)}
}
