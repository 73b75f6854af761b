package stride

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.stride.dev/internal/test"
)

// stripped drops positions so cases can be written compactly.
func stripped(toks []Token) []Token {
	out := make([]Token, len(toks))
	for i, t := range toks {
		t.Pos = Position{}
		out[i] = t
	}

	return out
}

func num(n int64, text string) Token {
	return Token{Typ: TokenNumber, Value: text, Num: n}
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		fail   bool
		expect []Token
	}{
		{
			"x = 12 + foo",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "x"},
				{Typ: TokenEquals, Value: "="},
				num(12, "12"),
				{Typ: TokenPlus, Value: "+"},
				{Typ: TokenIdentifier, Value: "foo"},
				{Typ: TokenEOF},
			},
		},
		{
			"a==b!=c<d>e",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "a"},
				{Typ: TokenEq, Value: "=="},
				{Typ: TokenIdentifier, Value: "b"},
				{Typ: TokenNeq, Value: "!="},
				{Typ: TokenIdentifier, Value: "c"},
				{Typ: TokenLess, Value: "<"},
				{Typ: TokenIdentifier, Value: "d"},
				{Typ: TokenGreater, Value: ">"},
				{Typ: TokenIdentifier, Value: "e"},
				{Typ: TokenEOF},
			},
		},
		{
			"f(a, -1) * 2 / 3:",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "f"},
				{Typ: TokenOpenParentheses, Value: "("},
				{Typ: TokenIdentifier, Value: "a"},
				{Typ: TokenComma, Value: ","},
				{Typ: TokenMinus, Value: "-"},
				num(1, "1"),
				{Typ: TokenCloseParentheses, Value: ")"},
				{Typ: TokenMultiply, Value: "*"},
				num(2, "2"),
				{Typ: TokenDivide, Value: "/"},
				num(3, "3"),
				{Typ: TokenColon, Value: ":"},
				{Typ: TokenEOF},
			},
		},
		{
			"if iffy else elsewhere while While _x1 x_2y",
			false,
			[]Token{
				{Typ: TokenIf, Value: "if"},
				{Typ: TokenIdentifier, Value: "iffy"},
				{Typ: TokenElse, Value: "else"},
				{Typ: TokenIdentifier, Value: "elsewhere"},
				{Typ: TokenWhile, Value: "while"},
				{Typ: TokenIdentifier, Value: "While"},
				{Typ: TokenIdentifier, Value: "_x1"},
				{Typ: TokenIdentifier, Value: "x_2y"},
				{Typ: TokenEOF},
			},
		},
		{
			"12abc 007",
			false,
			[]Token{
				num(12, "12"),
				{Typ: TokenIdentifier, Value: "abc"},
				num(7, "007"),
				{Typ: TokenEOF},
			},
		},
		{
			"únicódeShouldBeVàlid = 1",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "únicódeShouldBeVàlid"},
				{Typ: TokenEquals, Value: "="},
				num(1, "1"),
				{Typ: TokenEOF},
			},
		},
		{
			"x = 1 # trailing comment\n# full line\ny = 2",
			false,
			[]Token{
				{Typ: TokenIdentifier, Value: "x"},
				{Typ: TokenEquals, Value: "="},
				num(1, "1"),
				{Typ: TokenIdentifier, Value: "y"},
				{Typ: TokenEquals, Value: "="},
				num(2, "2"),
				{Typ: TokenEOF},
			},
		},
		{
			"",
			false,
			[]Token{
				{Typ: TokenEOF},
			},
		},
		{
			"  \n\t\n",
			false,
			[]Token{
				{Typ: TokenEOF},
			},
		},
		{
			"1 @ 2",
			true,
			nil,
		},
		{
			"a ! b",
			true,
			nil,
		},
		{
			"99999999999999999999",
			true,
			nil,
		},
	}

	for _, c := range cases {
		toks, err := NewLexer(c.data).Tokenize()
		if c.fail {
			assert.Error(t, err, c.data)
			assert.Nil(t, toks)
			continue
		}

		require.NoError(t, err, c.data)
		assert.Equal(t, c.expect, stripped(toks), c.data)
	}
}

func TestLexerIndentation(t *testing.T) {
	src := "if a < b:\n" +
		"    x = 1\n" +
		"\n" +
		"    while x:\n" +
		"        # only a comment\n" +
		"        x = 0\n" +
		"else:\n" +
		"    y = 2\n"

	toks, err := NewLexer(src).Tokenize()
	require.NoError(t, err)

	var kinds []TokenType
	for _, tok := range toks {
		kinds = append(kinds, tok.Typ)
	}

	assert.Equal(t, []TokenType{
		TokenIf, TokenIdentifier, TokenLess, TokenIdentifier, TokenColon,
		TokenIndent,
		TokenIdentifier, TokenEquals, TokenNumber,
		TokenWhile, TokenIdentifier, TokenColon,
		TokenIndent,
		TokenIdentifier, TokenEquals, TokenNumber,
		TokenDedent, TokenDedent,
		TokenElse, TokenColon,
		TokenIndent,
		TokenIdentifier, TokenEquals, TokenNumber,
		TokenDedent,
		TokenEOF,
	}, kinds)
}

func TestLexerIgnoresIndentationInsideParentheses(t *testing.T) {
	toks, err := NewLexer("f(1,\n      2,\n  3)\ng()").Tokenize()
	require.NoError(t, err)

	for _, tok := range toks {
		assert.NotEqual(t, TokenIndent, tok.Typ)
		assert.NotEqual(t, TokenDedent, tok.Typ)
	}

	assert.Len(t, toks, 12)
}

func TestLexerTabWidth(t *testing.T) {
	// With a tab width of 4 a tab and four spaces are the same level
	src := "while a:\n\tx = 1\n    y = 2\n"

	toks, err := NewLexer(src, WithTabWidth(4)).Tokenize()
	require.NoError(t, err)

	indents := 0
	for _, tok := range toks {
		if tok.Typ == TokenIndent {
			indents++
		}
	}
	assert.Equal(t, 1, indents)

	_, err = NewLexer(src).Tokenize()
	assert.Error(t, err, "default tab width of 8 makes the second line a dedent to an unknown level")
}

func TestLexerInconsistentDedent(t *testing.T) {
	_, err := NewLexer("if a:\n    x = 1\n  y = 2").Tokenize()

	var lexErr *LexicalError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, "inconsistent dedent", lexErr.Msg)
	assert.Equal(t, 3, lexErr.Pos.Line)
	assert.Equal(t, 'y', lexErr.Char)
}

func TestLexerIllegalCharacter(t *testing.T) {
	_, err := NewLexer("1 @ 2").Tokenize()

	var lexErr *LexicalError
	require.True(t, errors.As(err, &lexErr))
	assert.Equal(t, '@', lexErr.Char)
	assert.Equal(t, Position{Offset: 2, Line: 1, Column: 3}, lexErr.Pos)
	assert.Contains(t, lexErr.Error(), "'@'")
}

func TestLexerBareBang(t *testing.T) {
	for _, src := range []string{"a ! b", "a !", "!"} {
		_, err := NewLexer(src).Tokenize()

		var lexErr *LexicalError
		require.True(t, errors.As(err, &lexErr), src)
		assert.Equal(t, '!', lexErr.Char, src)
	}
}

func TestLexerPositions(t *testing.T) {
	toks, err := NewLexer("x = 1\n  \ny=foo").Tokenize()
	require.NoError(t, err)

	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, toks[0].Pos)
	assert.Equal(t, Position{Offset: 4, Line: 1, Column: 5}, toks[2].Pos)
	assert.Equal(t, Position{Offset: 9, Line: 3, Column: 1}, toks[3].Pos)
	assert.Equal(t, Position{Offset: 11, Line: 3, Column: 3}, toks[5].Pos)
	assert.Equal(t, TokenEOF, toks[6].Typ)
}

func TestLexerEOFForever(t *testing.T) {
	l := NewLexer("if x:\n  y = 1")

	toks, err := l.Tokenize()
	require.NoError(t, err)
	assert.Equal(t, TokenDedent, toks[len(toks)-2].Typ)

	for i := 0; i < 3; i++ {
		tok, err := l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, TokenEOF, tok.Typ)
	}
}

func TestLexerErrorIsSticky(t *testing.T) {
	l := NewLexer("x @")

	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, TokenIdentifier, tok.Typ)

	_, err1 := l.NextToken()
	_, err2 := l.NextToken()
	assert.Error(t, err1)
	assert.Equal(t, err1, err2)
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		// Setup
		b.StopTimer()
		l := NewLexer(test.GetRandomIndentedProgram(size))

		var err error
		b.StartTimer()

		benchResult, err = l.Tokenize()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer1000(b *testing.B) {
	benchmarkLexer(1000, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer100000(b *testing.B) {
	benchmarkLexer(100000, b)
}
