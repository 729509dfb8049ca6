// Package chroma provides Solidity tokenization using the chroma library.
package chroma

import (
	"fmt"
	"strings"

	chromalib "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.Lexer = (*Lexer)(nil)

// DefaultLanguage is the chroma lexer name used for Solidity sources.
const DefaultLanguage = "solidity"

// operators lists multi-character punctuation, longest first.
var operators = []string{
	">>>=", "<<=", ">>=", ">>>", "**=",
	"=>", "==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "%=", "|=", "&=", "^=",
	"++", "--", "&&", "||", "<<", ">>", "**", "->",
}

// Lexer splits Solidity source into traverse tokens. Chroma decides what is a
// comment; the remaining text, string literals included, is scanned into
// identifiers, numbers, strings and punctuation.
type Lexer struct {
	language string
}

// NewLexer creates a Lexer for the given chroma language name.
// An empty language selects DefaultLanguage.
func NewLexer(language string) (*Lexer, error) {
	if language == "" {
		language = DefaultLanguage
	}
	if lexers.Get(language) == nil {
		return nil, fmt.Errorf("chroma: no lexer for language %q", language)
	}
	return &Lexer{language: language}, nil
}

// Lex tokenizes source. Returns an empty slice for empty source.
func (l *Lexer) Lex(source string) ([]traverse.Token, error) {
	if source == "" {
		return []traverse.Token{}, nil
	}

	lexer := lexers.Get(l.language)
	if lexer == nil {
		return nil, fmt.Errorf("chroma: no lexer for language %q", l.language)
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return nil, fmt.Errorf("chroma: tokenise: %w", err)
	}

	tokens := []traverse.Token{}
	line := 1

	// Code between comments is buffered so operators that chroma emits in
	// pieces are split as a whole. String tokens are not trusted: chroma's
	// rule for assembly ("memory-safe") { ... } runs a string token past its
	// closing quote, so literals are delimited by appendSplit instead.
	var code strings.Builder
	codeLine := 1
	for token := iterator(); token != chromalib.EOF; token = iterator() {
		if token.Type.InCategory(chromalib.Comment) {
			if code.Len() > 0 {
				tokens = appendSplit(tokens, code.String(), codeLine)
				code.Reset()
			}
		} else {
			if code.Len() == 0 {
				codeLine = line
			}
			code.WriteString(token.Value)
		}
		line += strings.Count(token.Value, "\n")
	}
	if code.Len() > 0 {
		tokens = appendSplit(tokens, code.String(), codeLine)
	}

	return tokens, nil
}

// appendSplit splits raw text into identifier, number, string and
// punctuation tokens. Comments that chroma left inside the text are skipped.
func appendSplit(tokens []traverse.Token, text string, line int) []traverse.Token {
	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '"' || c == '\'':
			j := stringEnd(text, i)
			tokens = append(tokens, traverse.Token{Kind: traverse.TokenString, Text: text[i:j], Line: line})
			i = j
		case strings.HasPrefix(text[i:], "//"):
			j := strings.IndexByte(text[i:], '\n')
			if j < 0 {
				return tokens
			}
			i += j
		case strings.HasPrefix(text[i:], "/*"):
			j := strings.Index(text[i+2:], "*/")
			if j < 0 {
				return tokens
			}
			line += strings.Count(text[i:i+2+j], "\n")
			i += j + 4
		case isIdentStart(c):
			j := i + 1
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			tokens = append(tokens, traverse.Token{Kind: traverse.TokenIdent, Text: text[i:j], Line: line})
			i = j
		case isDigit(c):
			j := i + 1
			for j < len(text) && (isIdentPart(text[j]) || text[j] == '.') {
				j++
			}
			tokens = append(tokens, traverse.Token{Kind: traverse.TokenNumber, Text: text[i:j], Line: line})
			i = j
		default:
			op := string(c)
			for _, candidate := range operators {
				if strings.HasPrefix(text[i:], candidate) {
					op = candidate
					break
				}
			}
			tokens = append(tokens, traverse.Token{Kind: traverse.TokenPunct, Text: op, Line: line})
			i += len(op)
		}
	}
	return tokens
}

// stringEnd returns the index just past the literal opening at i. A literal
// ends at the first unescaped matching quote; Solidity strings cannot span
// lines, so an unterminated literal ends before the newline.
func stringEnd(text string, i int) int {
	quote := text[i]
	for j := i + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			if j+1 < len(text) && text[j+1] != '\n' {
				j++
			}
		case '\n':
			return j
		case quote:
			return j + 1
		}
	}
	return len(text)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
