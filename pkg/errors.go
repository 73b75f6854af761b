package stride

import (
	"errors"
	"fmt"
	"strings"
)

// LexicalError reports a character the lexer can't turn into a token.
type LexicalError struct {
	Char rune
	Pos  Position
	Msg  string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// SyntaxError reports a token that doesn't fit the grammar. Expected is set
// when a specific token kind was required; Rule names the grammar rule that
// failed otherwise.
type SyntaxError struct {
	Got      Token
	Expected []TokenType
	Rule     string
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) > 0 {
		want := make([]string, len(e.Expected))
		for i, t := range e.Expected {
			want[i] = t.String()
		}

		return fmt.Sprintf("%s: expected %s, got %s", e.Got.Pos, strings.Join(want, " or "), e.Got)
	}

	return fmt.Sprintf("%s: unexpected %s in %s", e.Got.Pos, e.Got, e.Rule)
}

// IsIncomplete reports whether err is a syntax error caused by running out
// of input, meaning more source could still make the program valid.
func IsIncomplete(err error) bool {
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Got.Typ == TokenEOF
	}

	return false
}

// FormatError renders lexical and syntax errors with the offending source
// line and a caret under the column:
//
//	syntax error at 2:7: expected RPAREN, got EOF
//
//	   1 | x = 1
//	   2 | y = (2
//	     |       ^
//
// Any other error is returned as its plain message.
func FormatError(err error, src string) string {
	var (
		lexErr    *LexicalError
		syntaxErr *SyntaxError
		header    string
		msg       string
		pos       Position
	)

	switch {
	case errors.As(err, &lexErr):
		header, msg, pos = "lexical error", lexErr.Error(), lexErr.Pos
	case errors.As(err, &syntaxErr):
		header, msg, pos = "syntax error", syntaxErr.Error(), syntaxErr.Got.Pos
	default:
		return err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s\n", header, msg)

	lines := strings.Split(src, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return strings.TrimRight(b.String(), "\n")
	}

	b.WriteByte('\n')

	first := pos.Line - 1
	if first < 1 {
		first = 1
	}

	for n := first; n <= pos.Line; n++ {
		fmt.Fprintf(&b, "%4d | %s\n", n, strings.TrimRight(lines[n-1], "\r"))
	}

	col := pos.Column
	if col < 1 {
		col = 1
	}
	fmt.Fprintf(&b, "     | %s^", caretPadding(strings.TrimRight(lines[pos.Line-1], "\r"), col-1))

	return b.String()
}

// caretPadding returns n columns of padding that line up with line, keeping
// its tabs so the caret lands under the same rune.
func caretPadding(line string, n int) string {
	var b strings.Builder

	for _, r := range line {
		if n == 0 {
			break
		}

		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
		n--
	}

	b.WriteString(strings.Repeat(" ", n))

	return b.String()
}
