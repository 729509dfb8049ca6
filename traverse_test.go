package traverse_test

import (
	"testing"

	"github.com/fwojciec/traverse"
	"github.com/stretchr/testify/assert"
)

func TestNode_IsEntryPoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		node traverse.Node
		want bool
	}{
		{"public function", traverse.Node{Kind: traverse.NodeFunction, Visibility: "public"}, true},
		{"external function", traverse.Node{Kind: traverse.NodeFunction, Visibility: "external"}, true},
		{"internal function", traverse.Node{Kind: traverse.NodeFunction, Visibility: "internal"}, false},
		{"private function", traverse.Node{Kind: traverse.NodeFunction, Visibility: "private"}, false},
		{"constructor", traverse.Node{Kind: traverse.NodeConstructor}, true},
		{"fallback", traverse.Node{Kind: traverse.NodeFallback, Visibility: "external"}, true},
		{"receive", traverse.Node{Kind: traverse.NodeReceive, Visibility: "external"}, true},
		{"modifier", traverse.Node{Kind: traverse.NodeModifier}, false},
		{"public state variable", traverse.Node{Kind: traverse.NodeStateVariable, Visibility: "public"}, false},
		{"event", traverse.Node{Kind: traverse.NodeEvent}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.node.IsEntryPoint())
		})
	}
}

func TestNodeKind_IsCallable(t *testing.T) {
	t.Parallel()

	assert.True(t, traverse.NodeFunction.IsCallable())
	assert.True(t, traverse.NodeModifier.IsCallable())
	assert.True(t, traverse.NodeReceive.IsCallable())
	assert.False(t, traverse.NodeStateVariable.IsCallable())
	assert.False(t, traverse.NodeEvent.IsCallable())
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "state_variable", traverse.NodeStateVariable.String())
	assert.Equal(t, "unknown", traverse.NodeKind(99).String())
	assert.Equal(t, "modifier", traverse.EdgeModifier.String())
	assert.Equal(t, "unknown", traverse.EdgeKind(-1).String())
}

func TestCallGraph(t *testing.T) {
	t.Parallel()

	g := &traverse.CallGraph{
		Nodes: []traverse.Node{
			{ID: 0, Name: "total", Contract: "A", Kind: traverse.NodeStateVariable},
			{ID: 1, Name: "set", Contract: "A", Kind: traverse.NodeFunction, Visibility: "public", HasBody: true},
			{ID: 2, Name: "helper", Kind: traverse.NodeFunction, Visibility: "internal", HasBody: true},
			{ID: 3, Name: "get", Contract: "B", Kind: traverse.NodeFunction, Visibility: "external", HasBody: true},
			{ID: 4, Name: "run", Contract: "A", Kind: traverse.NodeFunction, Visibility: "public", HasBody: true},
		},
		Edges: []traverse.Edge{
			{From: 1, To: 0, Kind: traverse.EdgeWrite},
			{From: 1, To: 2, Kind: traverse.EdgeCall},
			{From: 3, To: 0, Kind: traverse.EdgeRead},
			{From: 1, To: 0, Kind: traverse.EdgeRead},
		},
	}

	t.Run("node lookup", func(t *testing.T) {
		t.Parallel()

		n, ok := g.Node(3)
		assert.True(t, ok)
		assert.Equal(t, "get", n.Name)

		_, ok = g.Node(5)
		assert.False(t, ok)
		_, ok = g.Node(-1)
		assert.False(t, ok)
	})

	t.Run("contracts in node order without free functions", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"A", "B"}, g.Contracts())
	})

	t.Run("outgoing keeps insertion order", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []traverse.Edge{
			{From: 1, To: 0, Kind: traverse.EdgeWrite},
			{From: 1, To: 2, Kind: traverse.EdgeCall},
			{From: 1, To: 0, Kind: traverse.EdgeRead},
		}, g.Outgoing(1))
		assert.Empty(t, g.Outgoing(4))
	})

	t.Run("nil graph", func(t *testing.T) {
		t.Parallel()

		var nilGraph *traverse.CallGraph
		_, ok := nilGraph.Node(0)
		assert.False(t, ok)
		assert.Nil(t, nilGraph.Contracts())
		assert.Nil(t, nilGraph.Outgoing(0))
	})
}
