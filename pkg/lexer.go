package stride

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	EOF rune = -1

	DefaultTabWidth = 8
)

type stateFunc func(l *Lexer) stateFunc

// LexerOption configures a Lexer.
type LexerOption func(l *Lexer)

// WithTabWidth sets the column multiple a tab advances indentation to.
// Non-positive widths are ignored.
func WithTabWidth(width int) LexerOption {
	return func(l *Lexer) {
		if width > 0 {
			l.tabWidth = width
		}
	}
}

// Lexer turns source text into tokens in a single forward pass. Leading
// indentation of each logical line is converted into INDENT and DEDENT
// tokens, and every open indentation level is closed before EOF.
//
// A Lexer must not be reused for another input.
type Lexer struct {
	src   string
	pos   Position // Position of the next unread rune
	start Position // Position of the token being scanned

	state   stateFunc
	pending []Token
	err     error

	indents  []int
	depth    int // Parentheses nesting; indentation is ignored while > 0
	tabWidth int
}

func NewLexer(src string, opts ...LexerOption) *Lexer {
	l := &Lexer{
		src:      src,
		pos:      Position{Line: 1, Column: 1},
		state:    lineStartState,
		indents:  []int{0},
		tabWidth: DefaultTabWidth,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// NextToken returns the next token of the input. Once the input is exhausted
// it keeps returning EOF. After a LexicalError every call returns that error.
func (l *Lexer) NextToken() (Token, error) {
	for len(l.pending) == 0 && l.state != nil {
		l.state = l.state(l)
	}

	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]

		return tok, nil
	}

	if l.err != nil {
		return Token{}, l.err
	}

	return Token{Typ: TokenEOF, Pos: l.pos}, nil
}

// Tokenize scans the whole input. The returned slice always ends with EOF.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
		if tok.Typ == TokenEOF {
			return tokens, nil
		}
	}
}

// lineStartState measures the indentation of the next non-blank line.
func lineStartState(l *Lexer) stateFunc {
	width := 0
	for {
		switch r := l.peek(); r {
		case ' ':
			width++
		case '\t':
			width += l.tabWidth - width%l.tabWidth
		case '\n':
			width = 0 // Blank lines don't change the indentation
		case '#':
			l.skipComment()
			continue
		case EOF:
			return eofState
		default:
			if unicode.IsSpace(r) {
				break
			}

			return l.indent(width)
		}

		l.next()
	}
}

func (l *Lexer) indent(width int) stateFunc {
	l.start = l.pos

	top := l.indents[len(l.indents)-1]
	if width > top {
		l.indents = append(l.indents, width)
		return l.emitValue(TokenIndent, "")
	}

	if width == top {
		return defaultState
	}

	keep := len(l.indents) - 1
	for keep > 0 && l.indents[keep] > width {
		keep--
	}

	if l.indents[keep] != width {
		return l.errorf(l.peek(), "inconsistent dedent")
	}

	for i := len(l.indents) - 1; i > keep; i-- {
		l.pending = append(l.pending, Token{Typ: TokenDedent, Pos: l.start})
	}
	l.indents = l.indents[:keep+1]

	return defaultState
}

func defaultState(l *Lexer) stateFunc {
	l.skipWhitespace()

	switch r := l.peek(); {
	case r == EOF:
		return eofState
	case r == '\n':
		l.next()
		return lineStartState
	case '0' <= r && r <= '9':
		return numberState
	case isIdentifierStart(r):
		return identifierState
	default:
		return operatorState
	}
}

func eofState(l *Lexer) stateFunc {
	l.start = l.pos

	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, Token{Typ: TokenDedent, Pos: l.start})
	}

	l.emitValue(TokenEOF, "")

	return nil
}

func numberState(l *Lexer) stateFunc {
	l.start = l.pos

	var num strings.Builder
	for r := l.peek(); '0' <= r && r <= '9'; r = l.peek() {
		num.WriteRune(l.next())
	}

	n, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		return l.errorf(rune(num.String()[0]), "number out of range: %s", num.String())
	}

	l.pending = append(l.pending, Token{
		Typ:   TokenNumber,
		Value: num.String(),
		Num:   n,
		Pos:   l.start,
	})

	return defaultState
}

func identifierState(l *Lexer) stateFunc {
	l.start = l.pos

	var id strings.Builder
	for r := l.peek(); isIdentifierPart(r); r = l.peek() {
		id.WriteRune(l.next())
	}

	if t, ok := keywordTable[id.String()]; ok {
		return l.emitValue(t, id.String())
	}

	return l.emitValue(TokenIdentifier, id.String())
}

func operatorState(l *Lexer) stateFunc {
	l.start = l.pos

	r := l.next()
	if r == '=' || r == '!' { // Some operators can be two runes
		op := string(r) + string(l.peek())
		if tok, ok := operatorTable[op]; ok {
			l.next()
			return l.emitValue(tok, op)
		}
	}

	if r == '!' {
		return l.errorf(r, "expected '=' after '!'")
	}

	tok, ok := operatorTable[string(r)]
	if !ok {
		return l.errorf(r, "illegal character %q", r)
	}

	switch tok {
	case TokenOpenParentheses:
		l.depth++
	case TokenCloseParentheses:
		if l.depth > 0 {
			l.depth--
		}
	}

	return l.emitValue(tok, string(r))
}

// skipWhitespace stops in front of a newline unless inside parentheses,
// where line breaks carry no meaning.
func (l *Lexer) skipWhitespace() {
	for {
		switch r := l.peek(); {
		case r == '#':
			l.skipComment()
		case r == '\n':
			if l.depth == 0 {
				return
			}

			l.next()
		case r != EOF && unicode.IsSpace(r):
			l.next()
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for r := l.peek(); r != '\n' && r != EOF; r = l.peek() {
		l.next()
	}
}

func (l *Lexer) errorf(char rune, format string, args ...interface{}) stateFunc {
	l.err = &LexicalError{
		Char: char,
		Pos:  l.start,
		Msg:  fmt.Sprintf(format, args...),
	}

	return nil
}

func (l *Lexer) emitValue(t TokenType, val string) stateFunc {
	l.pending = append(l.pending, Token{
		Typ:   t,
		Value: val,
		Pos:   l.start,
	})

	return defaultState
}

func (l *Lexer) peek() rune {
	if l.pos.Offset >= len(l.src) {
		return EOF
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos.Offset:])
	return r
}

func (l *Lexer) next() rune {
	if l.pos.Offset >= len(l.src) {
		return EOF
	}

	r, w := utf8.DecodeRuneInString(l.src[l.pos.Offset:])
	l.pos.Offset += w

	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}

	return r
}

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierPart(r rune) bool {
	return isIdentifierStart(r) || ('0' <= r && r <= '9')
}
