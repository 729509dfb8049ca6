package solidity

import (
	"regexp"

	"github.com/fwojciec/traverse"
)

// elementaryType matches built-in type names used as conversions, e.g. uint256(x).
var elementaryType = regexp.MustCompile(`^(u?int[0-9]*|bytes[0-9]*|address|bool|string|byte|fixed|ufixed)$`)

// builtins are callable names that never resolve to user code.
var builtins = map[string]bool{
	"if": true, "for": true, "while": true, "do": true, "return": true, "returns": true,
	"require": true, "assert": true, "revert": true, "emit": true, "new": true,
	"payable": true, "keccak256": true, "sha256": true, "ripemd160": true,
	"ecrecover": true, "addmod": true, "mulmod": true, "selfdestruct": true,
	"blockhash": true, "gasleft": true, "type": true, "try": true, "catch": true,
	"unchecked": true, "delete": true, "mapping": true,
}

// assignOps are operators that store into their left operand.
var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"|=": true, "&=": true, "^=": true, "<<=": true, ">>=": true, ">>>=": true, "**=": true,
}

// resolver performs the edge pass.
type resolver struct {
	p     *parser
	edges []traverse.Edge
	seen  map[traverse.Edge]bool
}

func newResolver(p *parser) *resolver {
	return &resolver{p: p, seen: make(map[traverse.Edge]bool)}
}

func (r *resolver) addEdge(from, to int, kind traverse.EdgeKind) {
	e := traverse.Edge{From: from, To: to, Kind: kind}
	if r.seen[e] {
		return
	}
	r.seen[e] = true
	r.edges = append(r.edges, e)
}

// chain returns contractName followed by its bases, depth-first, without duplicates.
func (r *resolver) chain(contractName string) []string {
	var out []string
	visited := make(map[string]bool)
	var walk func(name string)
	walk = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		out = append(out, name)
		c, ok := r.p.contracts[name]
		if !ok {
			return
		}
		for _, base := range c.bases {
			walk(base)
		}
	}
	walk(contractName)
	return out
}

// lookup finds name in the first contract of chain that declares it.
func lookup(index map[string]map[string]int, chain []string, name string) (int, bool) {
	for _, c := range chain {
		if id, ok := index[c][name]; ok {
			return id, true
		}
	}
	return 0, false
}

func (r *resolver) resolve() {
	for _, b := range r.p.bodies {
		chain := r.chain(b.contract)
		if b.contract != "" {
			// Free functions are visible from every contract.
			chain = append(chain, "")
		}
		for _, mod := range b.modifiers {
			if id, ok := lookup(r.p.modifiers, chain, mod); ok {
				r.addEdge(b.nodeID, id, traverse.EdgeModifier)
			}
		}
		r.walkBody(b, chain)
	}
}

func (r *resolver) tok(i int) traverse.Token {
	if i < 0 || i >= len(r.p.toks) {
		return traverse.Token{}
	}
	return r.p.toks[i]
}

// walkBody records calls, emits and storage accesses in one body.
func (r *resolver) walkBody(b body, chain []string) {
	for i := b.start; i < b.end; i++ {
		t := r.tok(i)
		if t.Kind != traverse.TokenIdent {
			continue
		}
		prev := r.tok(i - 1)
		next := r.tok(i + 1)

		if t.Text == "emit" {
			i = r.emit(b, chain, i+1)
			continue
		}
		if prev.Text == "." || prev.Text == "new" {
			continue
		}

		switch {
		case next.Text == "(":
			r.call(b, chain, t.Text)
		case next.Text == "." && r.tok(i+2).Kind == traverse.TokenIdent && r.tok(i+3).Text == "(":
			r.memberCall(b, chain, t.Text, r.tok(i+2).Text)
		}

		if id, ok := lookup(r.p.stateVars, chain, t.Text); ok && next.Text != "(" {
			r.access(b, id, i)
		}
	}
}

// emit handles "emit Name(...)" or "emit Lib.Name(...)" starting at i and
// returns the index of the event name.
func (r *resolver) emit(b body, chain []string, i int) int {
	for r.tok(i+1).Text == "." && r.tok(i+2).Kind == traverse.TokenIdent {
		i += 2
	}
	name := r.tok(i)
	if name.Kind != traverse.TokenIdent {
		return i - 1
	}
	if id, ok := lookup(r.p.events, chain, name.Text); ok {
		r.addEdge(b.nodeID, id, traverse.EdgeEmit)
	}
	return i
}

func (r *resolver) call(b body, chain []string, name string) {
	if builtins[name] || elementaryType.MatchString(name) {
		return
	}
	id, ok := lookup(r.p.functions, chain, name)
	if !ok || id == b.nodeID || r.p.nodes[id].Kind == traverse.NodeConstructor {
		// Conversions such as Token(addr) share the constructor's name.
		return
	}
	r.addEdge(b.nodeID, id, traverse.EdgeCall)
}

func (r *resolver) memberCall(b body, chain []string, receiver, member string) {
	var target []string
	switch receiver {
	case "this":
		target = chain
	case "super":
		if len(chain) > 1 {
			target = chain[1:]
		}
	default:
		if _, ok := r.p.contracts[receiver]; ok {
			target = r.chain(receiver)
		} else if id, ok := lookup(r.p.stateVars, chain, receiver); ok {
			typeName := r.p.nodes[id].TypeName
			if _, ok := r.p.contracts[typeName]; ok {
				target = r.chain(typeName)
			}
		}
	}
	if len(target) == 0 {
		return
	}
	if id, ok := lookup(r.p.functions, target, member); ok && id != b.nodeID {
		r.addEdge(b.nodeID, id, traverse.EdgeCall)
	}
}

// access classifies the state variable reference at i as a read, a write or both.
func (r *resolver) access(b body, varID, i int) {
	if r.tok(i-1).Text == "delete" {
		r.addEdge(b.nodeID, varID, traverse.EdgeWrite)
		return
	}
	if op := r.tok(i - 1).Text; op == "++" || op == "--" {
		r.addEdge(b.nodeID, varID, traverse.EdgeRead)
		r.addEdge(b.nodeID, varID, traverse.EdgeWrite)
		return
	}

	// Skip index and member accessors: balances[a][b].field
	j := i + 1
	for j < b.end {
		switch {
		case r.tok(j).Text == "[":
			depth := 0
			for ; j < b.end; j++ {
				switch r.tok(j).Text {
				case "[":
					depth++
				case "]":
					depth--
				}
				if depth == 0 {
					break
				}
			}
			j++
			continue
		case r.tok(j).Text == "." && r.tok(j+1).Kind == traverse.TokenIdent:
			j += 2
			continue
		}
		break
	}

	op := r.tok(j).Text
	switch {
	case op == "=":
		r.addEdge(b.nodeID, varID, traverse.EdgeWrite)
	case assignOps[op], op == "++", op == "--":
		r.addEdge(b.nodeID, varID, traverse.EdgeRead)
		r.addEdge(b.nodeID, varID, traverse.EdgeWrite)
	default:
		r.addEdge(b.nodeID, varID, traverse.EdgeRead)
	}
}
