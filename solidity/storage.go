package solidity

import (
	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.StorageAnalyzer = (*StorageAnalyzer)(nil)

// StorageAnalyzer summarises state variable access per entry point,
// following call and modifier edges transitively.
type StorageAnalyzer struct{}

// NewStorageAnalyzer creates a new StorageAnalyzer.
func NewStorageAnalyzer() *StorageAnalyzer {
	return &StorageAnalyzer{}
}

// AnalyzeStorage returns one entry per implemented entry point in node order. Reads and
// writes are listed in the order they are first reached.
func (a *StorageAnalyzer) AnalyzeStorage(g *traverse.CallGraph) (traverse.StorageSummary, error) {
	if g == nil {
		return traverse.StorageSummary{}, nil
	}

	outgoing := make(map[int][]traverse.Edge)
	for _, e := range g.Edges {
		outgoing[e.From] = append(outgoing[e.From], e)
	}

	summary := traverse.StorageSummary{}
	for _, n := range g.Nodes {
		if !n.IsEntryPoint() || !n.HasBody {
			continue
		}
		access := traverse.StorageAccess{NodeID: n.ID, Reads: []int{}, Writes: []int{}}
		readSeen := make(map[int]bool)
		writeSeen := make(map[int]bool)
		visited := make(map[int]bool)

		var walk func(id int)
		walk = func(id int) {
			if visited[id] {
				return
			}
			visited[id] = true
			for _, e := range outgoing[id] {
				switch e.Kind {
				case traverse.EdgeRead:
					if !readSeen[e.To] {
						readSeen[e.To] = true
						access.Reads = append(access.Reads, e.To)
					}
				case traverse.EdgeWrite:
					if !writeSeen[e.To] {
						writeSeen[e.To] = true
						access.Writes = append(access.Writes, e.To)
					}
				case traverse.EdgeCall, traverse.EdgeModifier:
					walk(e.To)
				}
			}
		}
		walk(n.ID)

		summary = append(summary, access)
	}

	return summary, nil
}
