// Package traverse provides domain types for Solidity call-graph analysis
// and the diagrams generated from it.
package traverse

// NodeKind identifies what a call-graph node represents.
type NodeKind int

// Node kinds.
const (
	NodeFunction NodeKind = iota
	NodeConstructor
	NodeModifier
	NodeStateVariable
	NodeEvent
	NodeFallback
	NodeReceive
)

// String returns the lowercase name of the kind.
func (k NodeKind) String() string {
	switch k {
	case NodeFunction:
		return "function"
	case NodeConstructor:
		return "constructor"
	case NodeModifier:
		return "modifier"
	case NodeStateVariable:
		return "state_variable"
	case NodeEvent:
		return "event"
	case NodeFallback:
		return "fallback"
	case NodeReceive:
		return "receive"
	default:
		return "unknown"
	}
}

// IsCallable reports whether nodes of this kind have a body that can be invoked.
func (k NodeKind) IsCallable() bool {
	switch k {
	case NodeFunction, NodeConstructor, NodeModifier, NodeFallback, NodeReceive:
		return true
	}
	return false
}

// Node is a named entity in a call graph.
type Node struct {
	ID         int    // Index into CallGraph.Nodes
	Name       string // Function, modifier, variable or event name
	Contract   string // Owning contract, empty for free functions
	Kind       NodeKind
	Visibility string // public, external, internal, private or empty
	TypeName   string // Declared type for state variables
	HasBody    bool   // False for interface and abstract declarations
}

// IsEntryPoint reports whether the node can be invoked from outside its contract.
func (n Node) IsEntryPoint() bool {
	switch n.Kind {
	case NodeConstructor, NodeFallback, NodeReceive:
		return true
	case NodeFunction:
		return n.Visibility == "public" || n.Visibility == "external"
	}
	return false
}

// EdgeKind identifies the relationship an edge represents.
type EdgeKind int

// Edge kinds.
const (
	EdgeCall EdgeKind = iota
	EdgeModifier
	EdgeEmit
	EdgeRead
	EdgeWrite
)

// String returns the lowercase name of the kind.
func (k EdgeKind) String() string {
	switch k {
	case EdgeCall:
		return "call"
	case EdgeModifier:
		return "modifier"
	case EdgeEmit:
		return "emit"
	case EdgeRead:
		return "read"
	case EdgeWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Edge is a directed relationship between two nodes.
type Edge struct {
	From int
	To   int
	Kind EdgeKind
}

// CallGraph is a directed graph of callable entities and the state they touch.
// Node IDs equal their index in Nodes, and every edge endpoint refers to an
// existing node.
type CallGraph struct {
	Nodes []Node
	Edges []Edge
}

// Node returns the node with the given ID.
func (g *CallGraph) Node(id int) (Node, bool) {
	if g == nil || id < 0 || id >= len(g.Nodes) {
		return Node{}, false
	}
	return g.Nodes[id], true
}

// Contracts returns the distinct contract names in node order.
func (g *CallGraph) Contracts() []string {
	if g == nil {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for _, n := range g.Nodes {
		if n.Contract == "" || seen[n.Contract] {
			continue
		}
		seen[n.Contract] = true
		names = append(names, n.Contract)
	}
	return names
}

// Outgoing returns the edges leaving the given node, in insertion order.
func (g *CallGraph) Outgoing(id int) []Edge {
	if g == nil {
		return nil
	}
	var out []Edge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// StorageAccess lists the state variables one entry point reads and writes.
type StorageAccess struct {
	NodeID int
	Reads  []int // Ordered, duplicate-free node IDs
	Writes []int // Ordered, duplicate-free node IDs
}

// StorageSummary is the per-endpoint storage access, in engine iteration order.
type StorageSummary []StorageAccess
