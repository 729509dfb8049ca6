package traverse

// TokenKind classifies a lexical token of Solidity source.
type TokenKind int

// Token kinds.
const (
	TokenIdent TokenKind = iota
	TokenNumber
	TokenString
	TokenPunct
)

// Token is a single lexical unit with its 1-based source line.
type Token struct {
	Kind TokenKind
	Text string
	Line int
}

// Lexer splits source text into tokens, dropping whitespace and comments.
type Lexer interface {
	Lex(source string) ([]Token, error)
}
