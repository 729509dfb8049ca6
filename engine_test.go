package traverse_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/traverse"
	"github.com/fwojciec/traverse/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer(t *testing.T) {
	t.Parallel()

	graph := &traverse.CallGraph{Nodes: []traverse.Node{{ID: 0, Name: "f", Contract: "A"}}}

	t.Run("passes through results", func(t *testing.T) {
		t.Parallel()

		var built string
		a := &traverse.Analyzer{
			Builder: &mock.GraphBuilder{BuildCallGraphFn: func(source string) (*traverse.CallGraph, error) {
				built = source
				return graph, nil
			}},
			DOT:      &mock.DiagramRenderer{RenderFn: func(*traverse.CallGraph) (string, error) { return "digraph", nil }},
			Sequence: &mock.DiagramRenderer{RenderFn: func(*traverse.CallGraph) (string, error) { return "sequenceDiagram", nil }},
			Storage: &mock.StorageAnalyzer{AnalyzeStorageFn: func(*traverse.CallGraph) (traverse.StorageSummary, error) {
				return traverse.StorageSummary{{NodeID: 0}}, nil
			}},
		}

		g, err := a.BuildCallGraph("contract A {}")
		require.NoError(t, err)
		assert.Same(t, graph, g)
		assert.Equal(t, "contract A {}", built)

		dot, err := a.RenderDOT(g)
		require.NoError(t, err)
		assert.Equal(t, "digraph", dot)

		seq, err := a.RenderSequence(g)
		require.NoError(t, err)
		assert.Equal(t, "sequenceDiagram", seq)

		summary, err := a.AnalyzeStorage(g)
		require.NoError(t, err)
		assert.Len(t, summary, 1)
	})

	t.Run("wraps failures in EngineError", func(t *testing.T) {
		t.Parallel()

		a := &traverse.Analyzer{
			Builder: &mock.GraphBuilder{BuildCallGraphFn: func(string) (*traverse.CallGraph, error) {
				return nil, errors.New("unbalanced braces")
			}},
			DOT: &mock.DiagramRenderer{RenderFn: func(*traverse.CallGraph) (string, error) {
				return "", errors.New("unknown node 7")
			}},
			Sequence: &mock.DiagramRenderer{RenderFn: func(*traverse.CallGraph) (string, error) {
				return "", errors.New("boom")
			}},
			Storage: &mock.StorageAnalyzer{AnalyzeStorageFn: func(*traverse.CallGraph) (traverse.StorageSummary, error) {
				return nil, errors.New("boom")
			}},
		}

		var engErr *traverse.EngineError

		_, err := a.BuildCallGraph("contract A {")
		require.ErrorAs(t, err, &engErr)
		assert.Equal(t, "build", engErr.Op)
		assert.Equal(t, "unbalanced braces", engErr.Reason)

		_, err = a.RenderDOT(graph)
		require.ErrorAs(t, err, &engErr)
		assert.Equal(t, "dot", engErr.Op)

		_, err = a.RenderSequence(graph)
		require.ErrorAs(t, err, &engErr)
		assert.Equal(t, "sequence", engErr.Op)

		_, err = a.AnalyzeStorage(graph)
		require.ErrorAs(t, err, &engErr)
		assert.Equal(t, "storage", engErr.Op)
		assert.EqualError(t, err, "analysis engine storage failed: boom")
	})

	t.Run("keeps an existing EngineError", func(t *testing.T) {
		t.Parallel()

		orig := &traverse.EngineError{Op: "dot", Reason: "inner"}
		a := &traverse.Analyzer{
			Builder: &mock.GraphBuilder{BuildCallGraphFn: func(string) (*traverse.CallGraph, error) {
				return nil, orig
			}},
		}

		_, err := a.BuildCallGraph("")

		assert.Same(t, orig, err)
	})

	t.Run("nil graph from builder", func(t *testing.T) {
		t.Parallel()

		a := &traverse.Analyzer{
			Builder: &mock.GraphBuilder{BuildCallGraphFn: func(string) (*traverse.CallGraph, error) {
				return nil, nil
			}},
		}

		_, err := a.BuildCallGraph("")

		var engErr *traverse.EngineError
		require.ErrorAs(t, err, &engErr)
		assert.Equal(t, "build", engErr.Op)
	})
}

func TestErrors(t *testing.T) {
	t.Parallel()

	readErr := &traverse.ReadError{Path: "/tmp/a.sol", Err: errors.New("permission denied")}
	assert.EqualError(t, readErr, "failed to read /tmp/a.sol: permission denied")
	assert.ErrorContains(t, errors.Unwrap(readErr), "permission denied")

	chunkErr := &traverse.ChunkingError{Dir: "out", Err: errors.New("read-only")}
	assert.EqualError(t, chunkErr, "chunking into out failed: read-only")
	assert.EqualError(t, &traverse.ChunkingError{Err: errors.New("x")}, "chunking failed: x")
}
