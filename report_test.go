package traverse_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/traverse"
	"github.com/stretchr/testify/assert"
)

func TestRenderStorageReport(t *testing.T) {
	t.Parallel()

	g := &traverse.CallGraph{
		Nodes: []traverse.Node{
			{ID: 0, Name: "total", Contract: "A", Kind: traverse.NodeStateVariable},
			{ID: 1, Name: "owner", Contract: "A", Kind: traverse.NodeStateVariable},
			{ID: 2, Name: "foo", Contract: "A", Kind: traverse.NodeFunction, Visibility: "public", HasBody: true},
			{ID: 3, Name: "bar", Contract: "A", Kind: traverse.NodeFunction, Visibility: "public", HasBody: true},
			{ID: 4, Name: "free", Kind: traverse.NodeFunction, Visibility: "public", HasBody: true},
		},
	}

	t.Run("header", func(t *testing.T) {
		t.Parallel()

		got := traverse.RenderStorageReport(g, nil, 3)

		assert.Equal(t, "# Storage Access Analysis\n\n"+
			"**Files analyzed:** 3 Solidity files\n\n"+
			"| Endpoint | Reads | Writes |\n"+
			"|----------|-------|--------|\n", got)
	})

	t.Run("rows sorted by endpoint", func(t *testing.T) {
		t.Parallel()

		summary := traverse.StorageSummary{
			{NodeID: 2, Reads: []int{0}, Writes: []int{}},
			{NodeID: 3, Reads: []int{1, 0}, Writes: []int{0}},
		}

		got := traverse.RenderStorageReport(g, summary, 1)

		bar := strings.Index(got, "| A.bar | A.owner, A.total | A.total |")
		foo := strings.Index(got, "| A.foo | A.total |  |")
		assert.NotEqual(t, -1, bar)
		assert.NotEqual(t, -1, foo)
		assert.Less(t, bar, foo)
	})

	t.Run("free functions render under Global", func(t *testing.T) {
		t.Parallel()

		summary := traverse.StorageSummary{{NodeID: 4, Reads: []int{0}, Writes: []int{}}}

		got := traverse.RenderStorageReport(g, summary, 1)

		assert.Contains(t, got, "| Global.free | A.total |  |")
	})

	t.Run("unknown IDs", func(t *testing.T) {
		t.Parallel()

		summary := traverse.StorageSummary{
			{NodeID: 2, Reads: []int{42}, Writes: []int{}},
			{NodeID: 99, Reads: []int{}, Writes: []int{0}},
		}

		got := traverse.RenderStorageReport(g, summary, 1)
		rows := strings.Split(strings.TrimSpace(got), "\n")

		assert.Equal(t, "| UnknownVar(99) |  | A.total |", rows[len(rows)-2])
		assert.Equal(t, "| A.foo | UnknownVar(42) |  |", rows[len(rows)-1])
	})

	t.Run("input order is preserved", func(t *testing.T) {
		t.Parallel()

		summary := traverse.StorageSummary{
			{NodeID: 2, Reads: []int{}, Writes: []int{}},
			{NodeID: 3, Reads: []int{}, Writes: []int{}},
		}

		traverse.RenderStorageReport(g, summary, 1)

		assert.Equal(t, 2, summary[0].NodeID)
	})

	t.Run("nil graph", func(t *testing.T) {
		t.Parallel()

		summary := traverse.StorageSummary{{NodeID: 0, Reads: []int{1}, Writes: []int{}}}

		got := traverse.RenderStorageReport(nil, summary, 0)

		assert.Contains(t, got, "**Files analyzed:** 0 Solidity files")
		assert.Contains(t, got, "| UnknownVar(0) | UnknownVar(1) |  |")
	})
}
