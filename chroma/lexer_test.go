package chroma_test

import (
	"testing"

	"github.com/fwojciec/traverse"
	"github.com/fwojciec/traverse/chroma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(tokens []traverse.Token) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out
}

func TestLexer_Lex(t *testing.T) {
	t.Parallel()

	t.Run("splits identifiers and punctuation", func(t *testing.T) {
		t.Parallel()

		lexer, err := chroma.NewLexer("")
		require.NoError(t, err)

		tokens, err := lexer.Lex("function transfer(address to) public {}")
		require.NoError(t, err)

		assert.Equal(t, []string{"function", "transfer", "(", "address", "to", ")", "public", "{", "}"}, texts(tokens))
		assert.Equal(t, traverse.TokenIdent, tokens[1].Kind)
		assert.Equal(t, traverse.TokenPunct, tokens[2].Kind)
	})

	t.Run("drops comments", func(t *testing.T) {
		t.Parallel()

		lexer, err := chroma.NewLexer("solidity")
		require.NoError(t, err)

		src := "// leading comment\nuint256 x; /* block\ncomment */ uint256 y;\n"
		tokens, err := lexer.Lex(src)
		require.NoError(t, err)

		assert.Equal(t, []string{"uint256", "x", ";", "uint256", "y", ";"}, texts(tokens))
	})

	t.Run("keeps compound operators together", func(t *testing.T) {
		t.Parallel()

		lexer, err := chroma.NewLexer("solidity")
		require.NoError(t, err)

		tokens, err := lexer.Lex("balances[to] += amount; x == y; i++;")
		require.NoError(t, err)

		assert.Contains(t, texts(tokens), "+=")
		assert.Contains(t, texts(tokens), "==")
		assert.Contains(t, texts(tokens), "++")
	})

	t.Run("string literals become a single token", func(t *testing.T) {
		t.Parallel()

		lexer, err := chroma.NewLexer("solidity")
		require.NoError(t, err)

		tokens, err := lexer.Lex(`require(ok, "transfer(failed)");`)
		require.NoError(t, err)

		var strs []traverse.Token
		for _, tok := range tokens {
			if tok.Kind == traverse.TokenString {
				strs = append(strs, tok)
			}
		}
		require.Len(t, strs, 1)
		assert.Contains(t, strs[0].Text, "transfer(failed)")
		assert.NotContains(t, texts(tokens), "failed")
	})

	t.Run("memory-safe assembly keeps later code", func(t *testing.T) {
		t.Parallel()

		lexer, err := chroma.NewLexer("solidity")
		require.NoError(t, err)

		src := "function f() public {\n" +
			"    assembly (\"memory-safe\") { let x := 1 }\n" +
			"}\n" +
			"// note: (bool) {\n" +
			"function g() public returns (bool) { return true; }\n"
		tokens, err := lexer.Lex(src)
		require.NoError(t, err)

		var strs []string
		braces := 0
		for _, tok := range tokens {
			switch tok.Text {
			case "{":
				braces++
			case "}":
				braces--
			}
			if tok.Kind == traverse.TokenString {
				strs = append(strs, tok.Text)
			}
		}
		assert.Equal(t, []string{`"memory-safe"`}, strs)
		assert.Equal(t, 0, braces)
		assert.Contains(t, texts(tokens), "g")
		assert.Contains(t, texts(tokens), "returns")
		assert.NotContains(t, texts(tokens), "note")

		last := tokens[len(tokens)-1]
		assert.Equal(t, "}", last.Text)
		assert.Equal(t, 5, last.Line)
	})

	t.Run("escaped quotes stay inside the literal", func(t *testing.T) {
		t.Parallel()

		lexer, err := chroma.NewLexer("solidity")
		require.NoError(t, err)

		tokens, err := lexer.Lex(`s = "a\"b{"; t = 'c';`)
		require.NoError(t, err)

		assert.Equal(t, []string{"s", "=", `"a\"b{"`, ";", "t", "=", "'c'", ";"}, texts(tokens))
	})

	t.Run("tracks line numbers", func(t *testing.T) {
		t.Parallel()

		lexer, err := chroma.NewLexer("solidity")
		require.NoError(t, err)

		tokens, err := lexer.Lex("uint256 a;\n\nuint256 b;")
		require.NoError(t, err)
		require.Len(t, tokens, 6)

		assert.Equal(t, 1, tokens[0].Line)
		assert.Equal(t, 3, tokens[3].Line)
	})

	t.Run("handles empty source", func(t *testing.T) {
		t.Parallel()

		lexer, err := chroma.NewLexer("solidity")
		require.NoError(t, err)

		tokens, err := lexer.Lex("")
		require.NoError(t, err)
		assert.Empty(t, tokens)
	})
}

func TestNewLexer(t *testing.T) {
	t.Parallel()

	_, err := chroma.NewLexer("nonexistent-language-xyz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent-language-xyz")
}
