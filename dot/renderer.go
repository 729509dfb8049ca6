// Package dot renders call graphs as Graphviz digraphs.
package dot

import (
	"fmt"
	"strings"

	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.DiagramRenderer = (*Renderer)(nil)

// Renderer implements traverse.DiagramRenderer for the DOT language.
type Renderer struct {
	includeStorage bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithStorage controls whether state variables and their read/write edges
// are drawn. Enabled by default.
func WithStorage(include bool) RendererOption {
	return func(r *Renderer) {
		r.includeStorage = include
	}
}

// NewRenderer creates a new Renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{includeStorage: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns g as a digraph named call_graph.
func (r *Renderer) Render(g *traverse.CallGraph) (string, error) {
	var b strings.Builder
	b.WriteString("digraph call_graph {\n")
	b.WriteString("    rankdir=LR;\n")
	b.WriteString("    node [fontname=\"Helvetica\"];\n")

	if g == nil {
		b.WriteString("}\n")
		return b.String(), nil
	}

	hidden := make(map[int]bool)
	for _, n := range g.Nodes {
		if n.Kind == traverse.NodeStateVariable && !r.includeStorage {
			hidden[n.ID] = true
			continue
		}
		fmt.Fprintf(&b, "    n%d [label=%s, shape=%s];\n", n.ID, quote(label(n)), shape(n.Kind))
	}

	for _, e := range g.Edges {
		if hidden[e.From] || hidden[e.To] {
			continue
		}
		if _, ok := g.Node(e.From); !ok {
			return "", fmt.Errorf("dot: edge from unknown node %d", e.From)
		}
		if _, ok := g.Node(e.To); !ok {
			return "", fmt.Errorf("dot: edge to unknown node %d", e.To)
		}
		fmt.Fprintf(&b, "    n%d -> n%d [label=%s%s];\n", e.From, e.To, quote(e.Kind.String()), style(e.Kind))
	}

	b.WriteString("}\n")
	return b.String(), nil
}

func label(n traverse.Node) string {
	if n.Contract == "" {
		return n.Name
	}
	return n.Contract + "." + n.Name
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

func shape(k traverse.NodeKind) string {
	switch k {
	case traverse.NodeConstructor:
		return "doubleoctagon"
	case traverse.NodeModifier:
		return "diamond"
	case traverse.NodeStateVariable:
		return "cylinder"
	case traverse.NodeEvent:
		return "note"
	case traverse.NodeFallback, traverse.NodeReceive:
		return "hexagon"
	default:
		return "box"
	}
}

func style(k traverse.EdgeKind) string {
	switch k {
	case traverse.EdgeModifier:
		return ", style=dotted"
	case traverse.EdgeEmit:
		return ", style=bold, color=blue"
	case traverse.EdgeRead:
		return ", style=dashed, color=darkgreen"
	case traverse.EdgeWrite:
		return ", style=dashed, color=red"
	default:
		return ""
	}
}
