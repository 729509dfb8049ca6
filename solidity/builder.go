// Package solidity builds call graphs from Solidity source code.
//
// Building happens in two passes over the token stream. The first pass
// collects declarations (contracts, functions, modifiers, events and state
// variables) and records where each body starts and ends. The second pass
// walks the bodies and adds call, modifier, emit and storage edges, resolving
// names through each contract's inheritance chain.
package solidity

import (
	"fmt"

	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.GraphBuilder = (*Builder)(nil)

// Builder implements traverse.GraphBuilder for Solidity.
type Builder struct {
	lexer traverse.Lexer
}

// NewBuilder creates a Builder that tokenizes with the given lexer.
func NewBuilder(lexer traverse.Lexer) *Builder {
	return &Builder{lexer: lexer}
}

// BuildCallGraph parses source and returns its call graph. Empty source
// yields an empty graph.
func (b *Builder) BuildCallGraph(source string) (*traverse.CallGraph, error) {
	tokens, err := b.lexer.Lex(source)
	if err != nil {
		return nil, fmt.Errorf("solidity: %w", err)
	}

	p := newParser(tokens)
	if err := p.parseSourceUnit(); err != nil {
		return nil, fmt.Errorf("solidity: %w", err)
	}

	r := newResolver(p)
	r.resolve()

	return &traverse.CallGraph{Nodes: p.nodes, Edges: r.edges}, nil
}
