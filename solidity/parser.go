package solidity

import (
	"fmt"

	"github.com/fwojciec/traverse"
)

// contract is a contract, interface or library declaration.
type contract struct {
	name  string
	kind  string // contract, interface, library
	bases []string
}

// body is the token range of a callable's body, excluding the braces.
type body struct {
	nodeID    int
	contract  string
	start     int
	end       int
	modifiers []string // Invocations in the header, e.g. onlyOwner
}

// parser performs the declaration pass.
type parser struct {
	toks []traverse.Token
	pos  int

	nodes     []traverse.Node
	contracts map[string]*contract
	order     []string
	bodies    []body

	functions map[string]map[string]int // contract -> name -> first node ID
	modifiers map[string]map[string]int
	events    map[string]map[string]int
	stateVars map[string]map[string]int
}

func newParser(toks []traverse.Token) *parser {
	return &parser{
		toks:      toks,
		contracts: make(map[string]*contract),
		functions: make(map[string]map[string]int),
		modifiers: make(map[string]map[string]int),
		events:    make(map[string]map[string]int),
		stateVars: make(map[string]map[string]int),
	}
}

// visibilityWords are declaration keywords that are never a variable name.
var visibilityWords = map[string]bool{
	"public":    true,
	"private":   true,
	"internal":  true,
	"external":  true,
	"constant":  true,
	"immutable": true,
	"override":  true,
	"transient": true,
}

// headerKeywords appear between a function's parameter list and its body.
var headerKeywords = map[string]bool{
	"public":   true,
	"private":  true,
	"internal": true,
	"external": true,
	"view":     true,
	"pure":     true,
	"payable":  true,
	"virtual":  true,
	"constant": true,
}

func (p *parser) peek(offset int) traverse.Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.toks) {
		return traverse.Token{}
	}
	return p.toks[i]
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) line() int {
	if p.atEnd() {
		if len(p.toks) == 0 {
			return 1
		}
		return p.toks[len(p.toks)-1].Line
	}
	return p.toks[p.pos].Line
}

// skipPast advances past the next occurrence of text at nesting depth zero.
func (p *parser) skipPast(text string) error {
	start := p.line()
	depth := 0
	for ; !p.atEnd(); p.pos++ {
		t := p.toks[p.pos]
		if t.Kind != traverse.TokenPunct {
			continue
		}
		if depth == 0 && t.Text == text {
			p.pos++
			return nil
		}
		switch t.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth < 0 {
				return fmt.Errorf("unexpected %q at line %d", t.Text, t.Line)
			}
		}
	}
	return fmt.Errorf("expected %q after line %d", text, start)
}

// skipBalanced expects p.pos at an opening bracket and advances past its match.
func (p *parser) skipBalanced() error {
	open := p.toks[p.pos]
	closeText := map[string]string{"(": ")", "[": "]", "{": "}"}[open.Text]
	depth := 0
	for ; !p.atEnd(); p.pos++ {
		t := p.toks[p.pos]
		if t.Kind != traverse.TokenPunct {
			continue
		}
		switch t.Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				if t.Text != closeText {
					return fmt.Errorf("mismatched %q at line %d for %q opened at line %d", t.Text, t.Line, open.Text, open.Line)
				}
				p.pos++
				return nil
			}
		}
	}
	return fmt.Errorf("unbalanced %q opened at line %d", open.Text, open.Line)
}

func (p *parser) addNode(n traverse.Node) int {
	n.ID = len(p.nodes)
	p.nodes = append(p.nodes, n)
	return n.ID
}

func register(index map[string]map[string]int, contractName, name string, id int) {
	byName, ok := index[contractName]
	if !ok {
		byName = make(map[string]int)
		index[contractName] = byName
	}
	if _, exists := byName[name]; !exists {
		byName[name] = id
	}
}

// parseSourceUnit parses top-level declarations.
func (p *parser) parseSourceUnit() error {
	for !p.atEnd() {
		t := p.peek(0)
		var err error
		switch t.Text {
		case "pragma", "import", "using", "error":
			err = p.skipPast(";")
		case "abstract":
			p.pos++
			if p.peek(0).Text != "contract" {
				return fmt.Errorf("expected contract after abstract at line %d", t.Line)
			}
			err = p.parseContract()
		case "contract", "interface", "library":
			err = p.parseContract()
		case "function":
			err = p.parseFunction("", "")
		case "event":
			err = p.parseEvent("")
		case "struct", "enum":
			err = p.skipNamedBlock()
		case "}", ")", "]":
			return fmt.Errorf("unexpected %q at line %d", t.Text, t.Line)
		default:
			// File-level constants and user-defined value types.
			err = p.skipPast(";")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) skipNamedBlock() error {
	for !p.atEnd() && p.peek(0).Text != "{" {
		p.pos++
	}
	if p.atEnd() {
		return fmt.Errorf("expected '{' after line %d", p.line())
	}
	return p.skipBalanced()
}

// parseContract parses a contract, interface or library and its members.
func (p *parser) parseContract() error {
	kw := p.toks[p.pos]
	p.pos++
	name := p.peek(0)
	if name.Kind != traverse.TokenIdent {
		return fmt.Errorf("expected %s name at line %d", kw.Text, kw.Line)
	}
	p.pos++

	c := &contract{name: name.Text, kind: kw.Text}
	if p.peek(0).Text == "is" {
		p.pos++
		for !p.atEnd() && p.peek(0).Text != "{" {
			t := p.peek(0)
			switch {
			case t.Text == "(":
				if err := p.skipBalanced(); err != nil {
					return err
				}
				continue
			case t.Kind == traverse.TokenIdent && p.peek(1).Text != ".":
				c.bases = append(c.bases, t.Text)
			}
			p.pos++
		}
	}
	if p.peek(0).Text != "{" {
		return fmt.Errorf("expected '{' for %s %s at line %d", kw.Text, name.Text, name.Line)
	}
	open := p.toks[p.pos]
	p.pos++

	if _, dup := p.contracts[c.name]; !dup {
		p.order = append(p.order, c.name)
	}
	p.contracts[c.name] = c

	for {
		if p.atEnd() {
			return fmt.Errorf("unbalanced braces: %s %s opened at line %d is never closed", kw.Text, c.name, open.Line)
		}
		t := p.peek(0)
		var err error
		switch t.Text {
		case "}":
			p.pos++
			return nil
		case "function":
			err = p.parseFunction(c.name, c.kind)
		case "constructor":
			err = p.parseConstructor(c.name)
		case "modifier":
			err = p.parseModifier(c.name)
		case "fallback", "receive":
			err = p.parseSpecial(c.name)
		case "event":
			err = p.parseEvent(c.name)
		case "struct", "enum":
			err = p.skipNamedBlock()
		case "error", "using":
			err = p.skipPast(";")
		case ")", "]":
			return fmt.Errorf("unexpected %q at line %d", t.Text, t.Line)
		default:
			err = p.parseStateVariable(c.name)
		}
		if err != nil {
			return err
		}
	}
}

// parseHeader reads the tokens between a parameter list and the body. It
// returns the visibility, the modifier invocations and whether a body follows.
func (p *parser) parseHeader() (visibility string, mods []string, hasBody bool, err error) {
	for !p.atEnd() {
		t := p.peek(0)
		switch {
		case t.Text == "{":
			return visibility, mods, true, nil
		case t.Text == ";":
			p.pos++
			return visibility, mods, false, nil
		case t.Text == "returns" || t.Text == "override":
			p.pos++
			if p.peek(0).Text == "(" {
				if err := p.skipBalanced(); err != nil {
					return "", nil, false, err
				}
			}
			continue
		case t.Kind == traverse.TokenIdent && headerKeywords[t.Text]:
			switch t.Text {
			case "public", "private", "internal", "external":
				visibility = t.Text
			}
		case t.Kind == traverse.TokenIdent:
			mods = append(mods, t.Text)
			if p.peek(1).Text == "(" {
				p.pos++
				if err := p.skipBalanced(); err != nil {
					return "", nil, false, err
				}
				continue
			}
		case t.Text == "}" || t.Text == ")":
			return "", nil, false, fmt.Errorf("unexpected %q at line %d", t.Text, t.Line)
		}
		p.pos++
	}
	return "", nil, false, fmt.Errorf("unexpected end of source after line %d", p.line())
}

// parseCallable handles the shared tail of functions, constructors and
// modifiers: optional parameters, header and body.
func (p *parser) parseCallable(n traverse.Node, defaultVisibility string) error {
	if p.peek(0).Text == "(" {
		if err := p.skipBalanced(); err != nil {
			return err
		}
	}
	visibility, mods, hasBody, err := p.parseHeader()
	if err != nil {
		return err
	}
	if visibility == "" {
		visibility = defaultVisibility
	}
	n.Visibility = visibility
	n.HasBody = hasBody
	id := p.addNode(n)

	switch n.Kind {
	case traverse.NodeModifier:
		register(p.modifiers, n.Contract, n.Name, id)
	default:
		register(p.functions, n.Contract, n.Name, id)
	}

	if !hasBody {
		return nil
	}
	start := p.pos
	if err := p.skipBalanced(); err != nil {
		return err
	}
	p.bodies = append(p.bodies, body{
		nodeID:    id,
		contract:  n.Contract,
		start:     start + 1,
		end:       p.pos - 1,
		modifiers: mods,
	})
	return nil
}

func (p *parser) parseFunction(contractName, contractKind string) error {
	if p.peek(1).Text == "(" && p.functionTypeDecl() {
		if contractName == "" {
			return p.skipPast(";")
		}
		return p.parseStateVariable(contractName)
	}
	kw := p.toks[p.pos]
	p.pos++
	n := traverse.Node{Contract: contractName, Kind: traverse.NodeFunction}
	if t := p.peek(0); t.Kind == traverse.TokenIdent {
		n.Name = t.Text
		p.pos++
	} else if t.Text == "(" {
		// Pre-0.6 unnamed fallback function.
		n.Name = "fallback"
		n.Kind = traverse.NodeFallback
	} else {
		return fmt.Errorf("expected function name at line %d", kw.Line)
	}
	visibility := "public"
	switch {
	case contractKind == "interface":
		visibility = "external"
	case contractName == "":
		visibility = "internal"
	}
	return p.parseCallable(n, visibility)
}

// functionTypeDecl reports whether the "function (" at pos declares a
// variable of function type, as in
// "function(uint256) external returns (uint256) callback;", rather than a
// pre-0.6 unnamed fallback. A declaration has an initializer or ends with a
// name that is not a header keyword.
func (p *parser) functionTypeDecl() bool {
	depth := 0
	var prev traverse.Token
	for i := p.pos + 1; i < len(p.toks); i++ {
		t := p.toks[i]
		if t.Kind == traverse.TokenPunct {
			switch t.Text {
			case "(", "[":
				depth++
			case ")", "]":
				depth--
			case "{", "}":
				if depth == 0 {
					return false
				}
			case "=":
				if depth == 0 {
					return true
				}
			case ";":
				if depth == 0 {
					return prev.Kind == traverse.TokenIdent && !headerKeywords[prev.Text] && prev.Text != "override"
				}
			}
		}
		prev = t
	}
	return false
}

func (p *parser) parseConstructor(contractName string) error {
	p.pos++
	n := traverse.Node{Name: contractName, Contract: contractName, Kind: traverse.NodeConstructor}
	return p.parseCallable(n, "public")
}

func (p *parser) parseModifier(contractName string) error {
	kw := p.toks[p.pos]
	p.pos++
	t := p.peek(0)
	if t.Kind != traverse.TokenIdent {
		return fmt.Errorf("expected modifier name at line %d", kw.Line)
	}
	p.pos++
	n := traverse.Node{Name: t.Text, Contract: contractName, Kind: traverse.NodeModifier}
	return p.parseCallable(n, "internal")
}

func (p *parser) parseSpecial(contractName string) error {
	kw := p.toks[p.pos]
	p.pos++
	kind := traverse.NodeFallback
	if kw.Text == "receive" {
		kind = traverse.NodeReceive
	}
	n := traverse.Node{Name: kw.Text, Contract: contractName, Kind: kind}
	return p.parseCallable(n, "external")
}

func (p *parser) parseEvent(contractName string) error {
	kw := p.toks[p.pos]
	p.pos++
	t := p.peek(0)
	if t.Kind != traverse.TokenIdent {
		return fmt.Errorf("expected event name at line %d", kw.Line)
	}
	id := p.addNode(traverse.Node{Name: t.Text, Contract: contractName, Kind: traverse.NodeEvent})
	register(p.events, contractName, t.Text, id)
	return p.skipPast(";")
}

// parseStateVariable parses a declaration such as
// "mapping(address => uint256) private balances;". The name is the last
// identifier before the initializer that is not a visibility keyword.
func (p *parser) parseStateVariable(contractName string) error {
	start := p.pos
	if err := p.skipPast(";"); err != nil {
		return err
	}
	decl := p.toks[start : p.pos-1]

	var name, visibility, typeName string
	depth := 0
	for i, t := range decl {
		if t.Kind == traverse.TokenPunct {
			switch t.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			}
			if depth == 0 && t.Text == "=" {
				break
			}
			continue
		}
		if depth != 0 || t.Kind != traverse.TokenIdent {
			continue
		}
		if i == 0 {
			typeName = t.Text
			continue
		}
		switch {
		case t.Text == "public" || t.Text == "private" || t.Text == "internal":
			visibility = t.Text
		case visibilityWords[t.Text]:
		default:
			if i+1 < len(decl) && decl[i+1].Text == "." {
				continue
			}
			name = t.Text
		}
		if depth == 0 && i+1 < len(decl) && decl[i+1].Text == "=" {
			break
		}
	}
	if name == "" {
		return nil
	}
	if visibility == "" {
		visibility = "internal"
	}
	id := p.addNode(traverse.Node{
		Name:       name,
		Contract:   contractName,
		Kind:       traverse.NodeStateVariable,
		Visibility: visibility,
		TypeName:   typeName,
	})
	register(p.stateVars, contractName, name, id)
	return nil
}
