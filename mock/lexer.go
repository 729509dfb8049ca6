// Package mock provides test doubles for traverse interfaces.
package mock

import (
	"github.com/fwojciec/traverse"
)

// Compile-time interface verification.
var _ traverse.Lexer = (*Lexer)(nil)

// Lexer is a mock implementation of traverse.Lexer.
type Lexer struct {
	LexFn func(source string) ([]traverse.Token, error)
}

func (l *Lexer) Lex(source string) ([]traverse.Token, error) {
	return l.LexFn(source)
}
