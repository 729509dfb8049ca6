// Package mermaid renders call graphs as Mermaid sequence diagrams and splits
// large diagrams into numbered chunk files.
package mermaid

import (
	"fmt"
	"strings"

	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.DiagramRenderer = (*Renderer)(nil)

// DefaultMaxDepth bounds how deeply nested calls are expanded.
const DefaultMaxDepth = 10

// GlobalParticipant is the participant used for free functions.
const GlobalParticipant = "Global"

// EntryPrefix starts the comment line that opens each entry point block.
const EntryPrefix = "%% entry: "

// Renderer implements traverse.DiagramRenderer for Mermaid sequence diagrams.
// Each entry point becomes a block in which User calls it and the calls it
// makes are drawn depth first.
type Renderer struct {
	maxDepth         int
	includeModifiers bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMaxDepth limits call nesting. Values below 1 are ignored.
func WithMaxDepth(depth int) RendererOption {
	return func(r *Renderer) {
		if depth > 0 {
			r.maxDepth = depth
		}
	}
}

// WithModifiers controls whether modifier invocations are drawn as notes.
func WithModifiers(include bool) RendererOption {
	return func(r *Renderer) {
		r.includeModifiers = include
	}
}

// NewRenderer creates a new Renderer.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{maxDepth: DefaultMaxDepth, includeModifiers: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns g as a sequenceDiagram.
func (r *Renderer) Render(g *traverse.CallGraph) (string, error) {
	var b strings.Builder
	b.WriteString("sequenceDiagram\n")
	b.WriteString("    participant User\n")
	if g == nil {
		return b.String(), nil
	}

	for _, p := range participants(g) {
		fmt.Fprintf(&b, "    participant %s\n", p)
	}

	out := make(map[int][]traverse.Edge)
	for _, e := range g.Edges {
		if _, ok := g.Node(e.To); !ok {
			return "", fmt.Errorf("mermaid: edge to unknown node %d", e.To)
		}
		out[e.From] = append(out[e.From], e)
	}

	for _, n := range g.Nodes {
		if !n.IsEntryPoint() || !n.HasBody {
			continue
		}
		w := &walker{r: r, g: g, out: out, b: &b, visited: map[int]bool{n.ID: true}}
		who := participant(n)
		fmt.Fprintf(&b, "    %s%s.%s\n", EntryPrefix, who, n.Name)
		fmt.Fprintf(&b, "    User->>+%s: %s()\n", who, n.Name)
		w.walk(n, 1)
		fmt.Fprintf(&b, "    %s-->>-User: return\n", who)
	}

	return b.String(), nil
}

// walker draws the calls below one entry point.
type walker struct {
	r       *Renderer
	g       *traverse.CallGraph
	out     map[int][]traverse.Edge
	b       *strings.Builder
	visited map[int]bool
}

func (w *walker) walk(n traverse.Node, depth int) {
	from := participant(n)
	for _, e := range w.out[n.ID] {
		target, _ := w.g.Node(e.To)
		switch e.Kind {
		case traverse.EdgeEmit:
			fmt.Fprintf(w.b, "    Note over %s: emit %s\n", from, target.Name)
		case traverse.EdgeModifier:
			if !w.r.includeModifiers {
				continue
			}
			fmt.Fprintf(w.b, "    Note over %s: modifier %s\n", from, target.Name)
			if !w.visited[target.ID] && depth < w.r.maxDepth {
				w.visited[target.ID] = true
				w.walk(target, depth+1)
			}
		case traverse.EdgeCall:
			to := participant(target)
			if w.visited[target.ID] || depth >= w.r.maxDepth {
				fmt.Fprintf(w.b, "    %s->>%s: %s()\n", from, to, target.Name)
				continue
			}
			w.visited[target.ID] = true
			fmt.Fprintf(w.b, "    %s->>+%s: %s()\n", from, to, target.Name)
			w.walk(target, depth+1)
			fmt.Fprintf(w.b, "    %s-->>-%s: return\n", to, from)
		}
	}
}

func participant(n traverse.Node) string {
	if n.Contract == "" {
		return GlobalParticipant
	}
	return n.Contract
}

// participants lists contracts in node order, then Global if any free
// function is callable.
func participants(g *traverse.CallGraph) []string {
	names := g.Contracts()
	for _, n := range g.Nodes {
		if n.Contract == "" && n.Kind.IsCallable() {
			return append(names, GlobalParticipant)
		}
	}
	return names
}
